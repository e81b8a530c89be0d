package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/contracts"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository on MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "address.city", Value: 1}}},
		{Keys: bson.D{{Key: "minPrice", Value: 1}}},
		{Keys: bson.D{{Key: "pgOwner", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}
}

// Create validates the document and inserts it, assigning a new id.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := contracts.ValidateListing(listing); err != nil {
		r.logger.Warn("Listing rejected by schema", zap.Error(err))
		return err
	}

	doc, err := toListingDocument(listing)
	if err != nil {
		return domain.InputError("%v", err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	listing.ID = doc.ID.Hex()
	r.logger.Info("Listing created", zap.String("listing_id", listing.ID), zap.String("owner_id", listing.PgOwner))
	return nil
}

func (r *ListingRepository) Find(ctx context.Context, filter domain.Predicate, view domain.View) ([]*domain.Listing, error) {
	query, err := toBSONFilter(filter)
	if err != nil {
		return nil, domain.InputError("%v", err)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions(view))
	if err != nil {
		r.logger.Error("Failed to find listings", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings", zap.Error(err))
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	r.logger.Debug("Listings found", zap.Int("count", len(docs)))
	return toDomainListings(docs), nil
}

// FindByID reports ErrListingNotFound for malformed ids as well as missing
// documents.
func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to get listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) UpdateOwned(ctx context.Context, id, ownerID string, upd domain.ListingUpdate) (*domain.Listing, error) {
	if err := contracts.ValidateListingPatch(patchFields(upd)); err != nil {
		r.logger.Warn("Listing update rejected by schema", zap.Error(err), zap.String("listing_id", id))
		return nil, err
	}
	return r.findOneAndUpdate(ctx, id, ownerID, updateDocument(upd))
}

func (r *ListingRepository) AppendImages(ctx context.Context, id, ownerID string, urls []string, at time.Time) (*domain.Listing, error) {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "images", Value: bson.D{{Key: "$each", Value: urls}}}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: at}}},
	}
	return r.findOneAndUpdate(ctx, id, ownerID, update)
}

func (r *ListingRepository) findOneAndUpdate(ctx context.Context, id, ownerID string, update bson.D) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid, "pgOwner": ownerID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("Listing not found or not owned for update", zap.String("listing_id", id), zap.String("owner_id", ownerID))
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to update listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("db update failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) DeleteOwned(ctx context.Context, id, ownerID string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid, "pgOwner": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Warn("Listing not found or not owned for delete", zap.String("listing_id", id), zap.String("owner_id", ownerID))
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to delete listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("db delete failed: %w", err)
	}
	r.logger.Info("Listing deleted", zap.String("listing_id", id))
	return doc.toDomain(), nil
}
