package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("pg-service/media")

// UploadOptions is the transform the object store applies on upload.
type UploadOptions struct {
	Folder string
	Width  int
	Crop   string
}

type ObjectStore interface {
	Upload(ctx context.Context, f StagedFile, opts UploadOptions) (string, error)
	Delete(ctx context.Context, url string) error
}

// Recorder observes single uploads.
type Recorder interface {
	ObserveUpload(d time.Duration, err error)
}

type Config struct {
	Concurrency int
	TaskTimeout time.Duration
	Upload      UploadOptions
}

// Outcome is the settled result of one upload task.
type Outcome struct {
	File StagedFile
	URL  string
	Err  error
}

// BatchError reports every failed upload of a batch. It matches domain.ErrUpload.
type BatchError struct {
	Total  int
	Failed []Outcome
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, o := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", o.File.OriginalName, o.Err))
	}
	return fmt.Sprintf("%d of %d image uploads failed: %s", len(e.Failed), e.Total, strings.Join(parts, "; "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed)+1)
	errs = append(errs, domain.ErrUpload)
	for _, o := range e.Failed {
		errs = append(errs, o.Err)
	}
	return errs
}

type Pipeline struct {
	store    ObjectStore
	staging  Releaser
	cfg      Config
	recorder Recorder
	logger   *logger.Logger
}

type Option func(*Pipeline)

func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

func NewPipeline(store ObjectStore, staging Releaser, cfg Config, log *logger.Logger, opts ...Option) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	p := &Pipeline{
		store:   store,
		staging: staging,
		cfg:     cfg,
		logger:  log.Named("MediaPipeline"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ingest uploads every staged file and returns their URLs in input order.
// All tasks settle before Ingest returns and every file is released by its
// task. If any upload fails, the uploaded objects are removed and a
// *BatchError is returned. No files means nothing to do.
func (p *Pipeline) Ingest(ctx context.Context, files []StagedFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	ctx, span := tracer.Start(ctx, "MediaPipeline.Ingest")
	defer span.End()
	span.SetAttributes(attribute.Int("media.files", len(files)))

	outcomes := make([]Outcome, len(files))
	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			outcomes[i] = p.uploadOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	urls := make([]string, 0, len(files))
	var failed []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
			continue
		}
		urls = append(urls, o.URL)
	}

	if len(failed) > 0 {
		err := &BatchError{Total: len(files), Failed: failed}
		p.logger.Error("MediaPipeline.Ingest: batch failed",
			zap.Int("files", len(files)),
			zap.Int("failed", len(failed)),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		p.Discard(ctx, urls)
		return nil, err
	}

	p.logger.Info("MediaPipeline.Ingest: batch uploaded", zap.Int("files", len(files)))
	return urls, nil
}

func (p *Pipeline) uploadOne(ctx context.Context, f StagedFile) (out Outcome) {
	out.File = f
	defer func() {
		if err := p.staging.Release(f); err != nil {
			p.logger.Warn("failed to release staged file", zap.String("path", f.Path), zap.Error(err))
		}
	}()

	ctx, span := tracer.Start(ctx, "MediaPipeline.upload")
	defer span.End()

	if p.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	out.URL, out.Err = p.store.Upload(ctx, f, p.cfg.Upload)
	if p.recorder != nil {
		p.recorder.ObserveUpload(time.Since(start), out.Err)
	}
	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, "upload failed")
		p.logger.Warn("image upload failed", zap.String("file", f.OriginalName), zap.Error(out.Err))
	}
	return out
}

// Discard removes uploaded objects. It runs even if ctx is already cancelled.
func (p *Pipeline) Discard(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	for _, u := range urls {
		if err := p.store.Delete(ctx, u); err != nil {
			p.logger.Error("failed to discard uploaded image", zap.String("url", u), zap.Error(err))
		}
	}
}
