package mailer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mailer: SMTP host and sender address must be configured")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Message struct {
	To      string
	Subject string
	HTML    string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	from   string
	d      dialer
	logger *logger.Logger
}

func NewSMTPMailer(cfg Config, log *logger.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, ErrNotConfigured
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		from:   cfg.From,
		d:      gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password),
		logger: log.Named("Mailer"),
	}, nil
}

// Send delivers msg, giving up when ctx is done.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("mailer: no recipient")
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() { done <- m.d.DialAndSend(gm) }()

	select {
	case <-ctx.Done():
		m.logger.Warn("email sending cancelled", zap.String("to", msg.To), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			m.logger.Error("failed to send email", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

var listingCreatedTmpl = template.Must(template.New("listing-created").Parse(
	`<p>Your PG <strong>{{.Name}}</strong> in {{.Locality}} has been listed.</p>` +
		`<p>Listing id: {{.ID}}</p>`))

// ListingCreatedMessage renders the owner notification for a new listing.
func ListingCreatedMessage(to string, l *domain.Listing) (Message, error) {
	var b strings.Builder
	err := listingCreatedTmpl.Execute(&b, struct{ Name, Locality, ID string }{
		Name:     l.Name,
		Locality: l.Address.DisplayLocality,
		ID:       l.ID,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Your PG listing is live", HTML: b.String()}, nil
}

// SendListingCreatedEmail notifies the owner that the listing was created.
func (m *SMTPMailer) SendListingCreatedEmail(ctx context.Context, to string, l *domain.Listing) error {
	msg, err := ListingCreatedMessage(to, l)
	if err != nil {
		return err
	}
	return m.Send(ctx, msg)
}
