package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/query"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("pg-service/listing-usecase")

// MediaIngester uploads staged files and can remove what it uploaded.
type MediaIngester interface {
	Ingest(ctx context.Context, files []media.StagedFile) ([]string, error)
	Discard(ctx context.Context, urls []string)
}

type OwnerNotifier interface {
	SendListingCreatedEmail(ctx context.Context, to string, l *domain.Listing) error
}

type ListingMetrics interface {
	ListingCreated()
	ListingUpdated()
	ListingDeleted()
}

type ListingUsecase struct {
	repo     domain.ListingRepository
	media    MediaIngester
	staging  media.Releaser
	users    domain.UserRepository
	cache    domain.ListingCache
	events   domain.EventPublisher
	notifier OwnerNotifier
	metrics  ListingMetrics
	logger   *logger.Logger
	now      func() time.Time

	notifyTimeout time.Duration
}

type Option func(*ListingUsecase)

func WithCache(c domain.ListingCache) Option    { return func(uc *ListingUsecase) { uc.cache = c } }
func WithEvents(p domain.EventPublisher) Option { return func(uc *ListingUsecase) { uc.events = p } }
func WithMetrics(m ListingMetrics) Option       { return func(uc *ListingUsecase) { uc.metrics = m } }
func WithClock(now func() time.Time) Option     { return func(uc *ListingUsecase) { uc.now = now } }

// WithNotifier enables the owner email; users resolves the owner's address.
func WithNotifier(n OwnerNotifier, users domain.UserRepository) Option {
	return func(uc *ListingUsecase) { uc.notifier, uc.users = n, users }
}

func NewListingUsecase(repo domain.ListingRepository, ingester MediaIngester, staging media.Releaser, log *logger.Logger, opts ...Option) *ListingUsecase {
	uc := &ListingUsecase{
		repo:          repo,
		media:         ingester,
		staging:       staging,
		logger:        log.Named("ListingUsecase"),
		now:           func() time.Time { return time.Now().UTC() },
		notifyTimeout: 30 * time.Second,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// List runs the list endpoint: allow-listed filters, sort, page window and
// the fixed projection.
func (uc *ListingUsecase) List(ctx context.Context, params query.Params) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.List")
	defer span.End()

	q, err := query.BuildListQuery(params)
	if err != nil {
		uc.logger.Debug("ListingUsecase.List: rejected parameters", zap.Error(err))
		return nil, err
	}
	listings, err := uc.repo.Find(ctx, q.Filter, q.View)
	if err != nil {
		uc.logger.Error("ListingUsecase.List: repository find failed", zap.Error(err))
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(listings)))
	return listings, nil
}

// Search runs the multi-criterion search. Results are not paginated.
func (uc *ListingUsecase) Search(ctx context.Context, req query.SearchRequest) ([]*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Search")
	defer span.End()

	q, err := query.ComposeSearch(req)
	if err != nil {
		return nil, err
	}
	listings, err := uc.repo.Find(ctx, q.Filter, q.View)
	if err != nil {
		uc.logger.Error("ListingUsecase.Search: repository find failed", zap.Error(err))
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Info("ListingUsecase.Search: completed", zap.Int("results", len(listings)))
	return listings, nil
}

// GetByID reads through the cache when one is configured.
func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.GetByID", oteltrace.WithAttributes(attribute.String("listing_id", id)))
	defer span.End()

	if uc.cache != nil {
		if l, err := uc.cache.Get(ctx, id); err == nil && l != nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return l, nil
		} else if err != nil {
			uc.logger.Warn("ListingUsecase.GetByID: cache read failed", zap.String("listing_id", id), zap.Error(err))
		}
	}

	l, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Error("ListingUsecase.GetByID: repository read failed", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}
	uc.cachePut(ctx, l)
	return l, nil
}

// Create normalizes the form, uploads the staged images and persists the
// listing. On any failure the staged files are released, uploaded images are
// removed and nothing is persisted. Create takes ownership of files.
func (uc *ListingUsecase) Create(ctx context.Context, ownerID string, in CreateListingInput, files []media.StagedFile) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Create", oteltrace.WithAttributes(
		attribute.String("owner_id", ownerID),
		attribute.Int("images", len(files)),
	))
	defer span.End()

	uc.logger.Info("ListingUsecase.Create: creating listing", zap.String("owner_id", ownerID), zap.Int("images", len(files)))

	listing, err := NormalizeCreate(in, ownerID, uc.now())
	if err != nil {
		media.ReleaseAll(uc.staging, files, uc.logger)
		uc.logger.Info("ListingUsecase.Create: rejected input", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	// From here the pipeline owns and releases the staged files.
	urls, err := uc.media.Ingest(ctx, files)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "image upload failed")
		return nil, err
	}
	if len(urls) > 0 {
		listing.Images = urls
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("ListingUsecase.Create: failed to persist listing", zap.String("owner_id", ownerID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		uc.media.Discard(ctx, urls)
		return nil, err
	}

	span.SetAttributes(attribute.String("listing_id", listing.ID))
	uc.logger.Info("ListingUsecase.Create: listing created", zap.String("listing_id", listing.ID), zap.String("owner_id", ownerID))

	if uc.metrics != nil {
		uc.metrics.ListingCreated()
	}
	uc.cachePut(ctx, listing)
	uc.publish(ctx, domain.SubjectListingCreated, listingEvent(listing))
	uc.notifyOwner(ctx, listing)
	return listing, nil
}

// Update applies an owner-scoped update.
func (uc *ListingUsecase) Update(ctx context.Context, id, ownerID string, in UpdateListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Update", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("owner_id", ownerID),
	))
	defer span.End()

	upd, err := NormalizeUpdate(in, uc.now())
	if err != nil {
		return nil, err
	}
	listing, err := uc.repo.UpdateOwned(ctx, id, ownerID, upd)
	if err != nil {
		uc.logger.Warn("ListingUsecase.Update: update failed", zap.String("listing_id", id), zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ListingUpdated()
	}
	uc.cachePut(ctx, listing)
	uc.publish(ctx, domain.SubjectListingUpdated, listingEvent(listing))
	uc.logger.Info("ListingUsecase.Update: listing updated", zap.String("listing_id", id))
	return listing, nil
}

// Delete removes a listing owned by ownerID. Listings that do not exist or
// belong to someone else yield domain.ErrListingNotFound.
func (uc *ListingUsecase) Delete(ctx context.Context, id, ownerID string) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.Delete", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("owner_id", ownerID),
	))
	defer span.End()

	listing, err := uc.repo.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		uc.logger.Warn("ListingUsecase.Delete: delete failed", zap.String("listing_id", id), zap.String("owner_id", ownerID), zap.Error(err))
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ListingDeleted()
	}
	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, id); err != nil {
			uc.logger.Warn("ListingUsecase.Delete: cache eviction failed", zap.String("listing_id", id), zap.Error(err))
		}
	}
	uc.publish(ctx, domain.SubjectListingDeleted, listingEvent(listing))
	uc.logger.Info("ListingUsecase.Delete: listing deleted", zap.String("listing_id", id))
	return nil
}

func (uc *ListingUsecase) cachePut(ctx context.Context, l *domain.Listing) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, l); err != nil {
		uc.logger.Warn("cache write failed", zap.String("listing_id", l.ID), zap.Error(err))
	}
}

type ListingEvent struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id"`
	City     string   `json:"city"`
	MinPrice float64  `json:"min_price"`
	MaxPrice float64  `json:"max_price"`
	Images   []string `json:"images,omitempty"`
}

func listingEvent(l *domain.Listing) ListingEvent {
	return ListingEvent{
		ID:       l.ID,
		OwnerID:  l.PgOwner,
		City:     l.Address.City,
		MinPrice: l.MinPrice,
		MaxPrice: l.MaxPrice,
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, ev ListingEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, ev); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", subject), zap.String("listing_id", ev.ID), zap.Error(err))
	}
}

// notifyOwner sends the creation email in the background.
func (uc *ListingUsecase) notifyOwner(ctx context.Context, l *domain.Listing) {
	if uc.notifier == nil || uc.users == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.notifyTimeout)
	snapshot := *l
	go func() {
		defer cancel()
		to, err := uc.users.GetEmailByID(ctx, snapshot.PgOwner)
		if err != nil {
			uc.logger.Warn("owner email lookup failed", zap.String("owner_id", snapshot.PgOwner), zap.Error(err))
			return
		}
		if err := uc.notifier.SendListingCreatedEmail(ctx, to, &snapshot); err != nil {
			uc.logger.Warn("listing created email failed", zap.String("listing_id", snapshot.ID), zap.Error(err))
		}
	}()
}
