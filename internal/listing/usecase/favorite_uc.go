package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"go.uber.org/zap"
)

type FavoriteUsecase struct {
	repo     domain.FavoriteRepository
	listings domain.ListingRepository
	logger   *logger.Logger
}

func NewFavoriteUsecase(repo domain.FavoriteRepository, listings domain.ListingRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		repo:     repo,
		listings: listings,
		logger:   log.Named("FavoriteUsecase"),
	}
}

func (uc *FavoriteUsecase) AddFavorite(ctx context.Context, userID, listingID string) (*domain.Favorite, error) {
	uc.logger.Info("FavoriteUsecase.AddFavorite: adding favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))
	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}
	favorite := &domain.Favorite{
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Add(ctx, favorite); err != nil {
		uc.logger.Error("FavoriteUsecase.AddFavorite: failed to add favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	return favorite, nil
}

func (uc *FavoriteUsecase) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	uc.logger.Info("FavoriteUsecase.RemoveFavorite: removing favorite", zap.String("user_id", userID), zap.String("listing_id", listingID))
	err := uc.repo.Remove(ctx, userID, listingID)
	if err != nil {
		uc.logger.Warn("FavoriteUsecase.RemoveFavorite: failed to remove favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
	}
	return err
}

func (uc *FavoriteUsecase) GetFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	favorites, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetFavorites: failed to fetch favorites", zap.String("user_id", userID), zap.Error(err))
	}
	return favorites, err
}
