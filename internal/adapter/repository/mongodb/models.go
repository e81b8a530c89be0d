package mongodb

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingDocument mirrors domain.Listing. Field names match the JSON names so
// predicate field paths can be used as BSON paths unchanged.
type listingDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	PgOwner          string             `bson:"pgOwner"`
	Name             string             `bson:"name"`
	Address          addressDocument    `bson:"address"`
	PgType           string             `bson:"pgType"`
	Sharing          []sharingDocument  `bson:"sharing,omitempty"`
	MinPrice         float64            `bson:"minPrice"`
	MaxPrice         float64            `bson:"maxPrice"`
	PgAmenities      map[string]bool    `bson:"pgAmenities,omitempty"`
	PgRules          map[string]bool    `bson:"pgRules,omitempty"`
	Food             []string           `bson:"food,omitempty"`
	Images           []string           `bson:"images"`
	PgContactInfo    contactDocument    `bson:"pgContactInfo"`
	NoticePeriodDays int                `bson:"noticePeriodDays"`
	SecurityDeposit  float64            `bson:"securityDeposit"`
	Location         *pointDocument     `bson:"location,omitempty"`
	Geohash          string             `bson:"geohash,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

type addressDocument struct {
	DisplayLocality string `bson:"displayLocality"`
	MatchLocality   string `bson:"matchLocality"`
	City            string `bson:"city"`
	State           string `bson:"state"`
	Pincode         int    `bson:"pincode"`
}

type sharingDocument struct {
	Occupancy int     `bson:"occupancy"`
	Price     float64 `bson:"price"`
}

type contactDocument struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
	Email string `bson:"email,omitempty"`
}

type pointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func objectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return oid, nil
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	oid, err := objectID(l.ID)
	if err != nil {
		return nil, err
	}
	doc := &listingDocument{
		ID:               oid,
		PgOwner:          l.PgOwner,
		Name:             l.Name,
		Address:          toAddressDocument(l.Address),
		PgType:           string(l.PgType),
		Sharing:          toSharingDocuments(l.Sharing),
		MinPrice:         l.MinPrice,
		MaxPrice:         l.MaxPrice,
		PgAmenities:      l.PgAmenities,
		PgRules:          l.PgRules,
		Food:             toFoodStrings(l.Food),
		Images:           l.Images,
		PgContactInfo:    contactDocument(l.PgContactInfo),
		NoticePeriodDays: l.NoticePeriodDays,
		SecurityDeposit:  l.SecurityDeposit,
		Location:         toPointDocument(l.Location),
		Geohash:          l.Geohash,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	return doc, nil
}

func toAddressDocument(a domain.Address) addressDocument { return addressDocument(a) }

func toSharingDocuments(in []domain.SharingOption) []sharingDocument {
	if in == nil {
		return nil
	}
	out := make([]sharingDocument, len(in))
	for i, s := range in {
		out[i] = sharingDocument(s)
	}
	return out
}

func toFoodStrings(in []domain.FoodOption) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, f := range in {
		out[i] = string(f)
	}
	return out
}

func toPointDocument(p *domain.GeoPoint) *pointDocument {
	if p == nil {
		return nil
	}
	return &pointDocument{Type: p.Type, Coordinates: []float64{p.Coordinates[0], p.Coordinates[1]}}
}

func (d *listingDocument) toDomain() *domain.Listing {
	l := &domain.Listing{
		ID:               d.ID.Hex(),
		PgOwner:          d.PgOwner,
		Name:             d.Name,
		Address:          domain.Address(d.Address),
		PgType:           domain.PgType(d.PgType),
		MinPrice:         d.MinPrice,
		MaxPrice:         d.MaxPrice,
		PgAmenities:      d.PgAmenities,
		PgRules:          d.PgRules,
		Images:           d.Images,
		PgContactInfo:    domain.ContactInfo(d.PgContactInfo),
		NoticePeriodDays: d.NoticePeriodDays,
		SecurityDeposit:  d.SecurityDeposit,
		Geohash:          d.Geohash,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.Sharing != nil {
		l.Sharing = make([]domain.SharingOption, len(d.Sharing))
		for i, s := range d.Sharing {
			l.Sharing[i] = domain.SharingOption(s)
		}
	}
	if d.Food != nil {
		l.Food = make([]domain.FoodOption, len(d.Food))
		for i, f := range d.Food {
			l.Food[i] = domain.FoodOption(f)
		}
	}
	if d.Location != nil && len(d.Location.Coordinates) == 2 {
		l.Location = &domain.GeoPoint{
			Type:        d.Location.Type,
			Coordinates: [2]float64{d.Location.Coordinates[0], d.Location.Coordinates[1]},
		}
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	return l
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out
}

func toFavoriteDocument(f *domain.Favorite) (*favoriteDocument, error) {
	oid, err := objectID(f.ID)
	if err != nil {
		return nil, err
	}
	return &favoriteDocument{
		ID:        oid,
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}, nil
}

func (d *favoriteDocument) toDomain() *domain.Favorite {
	return &domain.Favorite{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		ListingID: d.ListingID,
		CreatedAt: d.CreatedAt,
	}
}

func toUserDocument(u *domain.User) (*userDocument, error) {
	oid, err := objectID(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDocument{
		ID:           oid,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}, nil
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Role:         domain.Role(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
