package mongodb

import (
	"context"
	"errors"
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

const userCollectionName = "users"

type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	collection := db.Collection(userCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for users collection", zap.Error(err))
	}

	return &UserRepository{
		collection: collection,
		logger:     log.Named("UserRepository"),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc, err := toUserDocument(user)
	if err != nil {
		return domain.InputError("%v", err)
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var doc userDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// GetEmailByID fetches only the email, for owner notifications.
func (r *UserRepository) GetEmailByID(ctx context.Context, id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", domain.ErrUserNotFound
	}
	var result struct {
		Email string `bson:"email"`
	}
	opts := options.FindOne().SetProjection(bson.M{"email": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("db findone failed: %w", err)
	}
	return result.Email, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.D{{Key: "updated_at", Value: upd.UpdatedAt}}
	if upd.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *upd.Name})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *upd.Email})
	}
	if upd.Role != nil {
		set = append(set, bson.E{Key: "role", Value: string(*upd.Role)})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrDuplicateEmail
		}
		r.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("db update failed: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
