package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/media"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AddImages uploads more photos to a listing owned by ownerID. The staged
// files are consumed whether or not the call succeeds.
func (uc *ListingUsecase) AddImages(ctx context.Context, id, ownerID string, files []media.StagedFile) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.AddImages", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.Int("images", len(files)),
	))
	defer span.End()

	if len(files) == 0 {
		return nil, domain.InputError("no images were uploaded")
	}

	// Fail before uploading when the listing is not the caller's.
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		media.ReleaseAll(uc.staging, files, uc.logger)
		return nil, err
	}
	if current.PgOwner != ownerID {
		media.ReleaseAll(uc.staging, files, uc.logger)
		return nil, domain.ErrListingNotFound
	}

	urls, err := uc.media.Ingest(ctx, files)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	listing, err := uc.repo.AppendImages(ctx, id, ownerID, urls, uc.now())
	if err != nil {
		uc.logger.Error("ListingUsecase.AddImages: failed to attach images", zap.String("listing_id", id), zap.Error(err))
		uc.media.Discard(ctx, urls)
		return nil, err
	}

	uc.cachePut(ctx, listing)
	ev := listingEvent(listing)
	ev.Images = urls
	uc.publish(ctx, domain.SubjectListingImagesAdded, ev)
	uc.logger.Info("ListingUsecase.AddImages: images attached", zap.String("listing_id", id), zap.Int("count", len(urls)))
	return listing, nil
}
