package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const favoriteCollectionName = "favorites"

type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	collection := db.Collection(favoriteCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for favorites collection", zap.Error(err))
	}

	return &FavoriteRepository{
		collection: collection,
		logger:     log.Named("FavoriteRepository"),
	}
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now().UTC()
	}
	doc, err := toFavoriteDocument(favorite)
	if err != nil {
		return domain.InputError("%v", err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Favorite already exists", zap.String("user_id", favorite.UserID), zap.String("listing_id", favorite.ListingID))
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("Failed to insert favorite", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	favorite.ID = doc.ID.Hex()
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("Failed to delete favorite", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// FindByUserID returns the user's favorites, newest first.
func (r *FavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error("Failed to find favorites", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	out := make([]*domain.Favorite, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
