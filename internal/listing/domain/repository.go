package domain

import (
	"context"
	"time"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Find(ctx context.Context, filter Predicate, view View) ([]*Listing, error)
	FindByID(ctx context.Context, id string) (*Listing, error)
	// UpdateOwned and DeleteOwned match on both id and owner; a listing owned
	// by someone else is reported as ErrListingNotFound.
	UpdateOwned(ctx context.Context, id, ownerID string, upd ListingUpdate) (*Listing, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (*Listing, error)
	AppendImages(ctx context.Context, id, ownerID string, urls []string, at time.Time) (*Listing, error)
}

// ListingUpdate carries the fields to set. Nil fields are left unchanged.
type ListingUpdate struct {
	Name             *string
	Address          *Address
	PgType           *PgType
	Sharing          []SharingOption
	MinPrice         *float64
	MaxPrice         *float64
	PgAmenities      map[string]bool
	PgRules          map[string]bool
	Food             []FoodOption
	PgContactInfo    *ContactInfo
	NoticePeriodDays *int
	SecurityDeposit  *float64
	Location         *GeoPoint
	Geohash          *string
	UpdatedAt        time.Time
}

type ListingCache interface {
	Get(ctx context.Context, id string) (*Listing, error)
	Set(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	FindByUserID(ctx context.Context, userID string) ([]*Favorite, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetEmailByID(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
}

type UserUpdate struct {
	Name      *string
	Email     *string
	Role      *Role
	UpdatedAt time.Time
}

// EventPublisher emits domain events. Failures are reported, not retried.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

const (
	SubjectListingCreated     = "listing.created"
	SubjectListingUpdated     = "listing.updated"
	SubjectListingDeleted     = "listing.deleted"
	SubjectListingImagesAdded = "listing.images.added"
)
