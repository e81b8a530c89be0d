package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("pg-service/nats-publisher")

// Envelope is the wire format of every listing event.
type Envelope struct {
	ID         string      `json:"id"`
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

type Publisher struct {
	conn   *nats.Conn
	pub    msgPublisher
	logger *logger.Logger
	now    func() time.Time
}

func NewPublisher(url string, log *logger.Logger, appName string) (*Publisher, error) {
	log.Info("NATS Publisher: connecting...", zap.String("url", url))

	opts := []nats.Option{
		nats.Name(fmt.Sprintf("%s NATS Publisher", appName)),
		nats.Timeout(10 * time.Second),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error("NATS error", zap.String("subject", subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		log.Error("NATS Publisher: failed to connect", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("NATS Publisher: successfully connected", zap.String("url", conn.ConnectedUrl()))

	p := newPublisher(conn, log)
	p.conn = conn
	return p, nil
}

func newPublisher(pub msgPublisher, log *logger.Logger) *Publisher {
	return &Publisher{
		pub:    pub,
		logger: log.Named("NATSPublisher"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Publish wraps data in an Envelope and sends it with the trace context in
// the message headers.
func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("NATS.Publish.%s", subject))
	defer span.End()

	env := Envelope{
		ID:         uuid.NewString(),
		Subject:    subject,
		OccurredAt: p.now(),
		Data:       data,
	}
	span.SetAttributes(attribute.String("messaging.message.id", env.ID))

	payload, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("NATS Publisher: failed to marshal event", zap.String("subject", subject), zap.Error(err))
		span.RecordError(err)
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = payload
	if msg.Header == nil {
		msg.Header = make(nats.Header)
	}
	otel.GetTextMapPropagator().Inject(ctx, NATSHeaderCarrier(msg.Header))

	if err := p.pub.PublishMsg(msg); err != nil {
		p.logger.Error("NATS Publisher: failed to publish message", zap.String("subject", subject), zap.Error(err))
		span.RecordError(err)
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	p.logger.Debug("NATS Publisher: event published", zap.String("subject", subject), zap.String("event_id", env.ID), zap.Int("bytes", len(payload)))
	return nil
}

// NATSHeaderCarrier adapts nats.Header to propagation.TextMapCarrier.
type NATSHeaderCarrier nats.Header

func (c NATSHeaderCarrier) Get(key string) string {
	return nats.Header(c).Get(key)
}

func (c NATSHeaderCarrier) Set(key string, value string) {
	nats.Header(c).Set(key, value)
}

func (c NATSHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	p.logger.Info("NATS Publisher: closing connection...")
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("NATS Publisher: failed to drain connection", zap.Error(err))
		p.conn.Close()
	}
}
