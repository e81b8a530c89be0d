package contracts

import (
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
)

func validListing() *domain.Listing {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Listing{
		PgOwner: "665f1c2e8a1b2c3d4e5f6a7b",
		Name:    "Sunrise Pg",
		Address: domain.Address{
			DisplayLocality: "Raj Nagar",
			MatchLocality:   "raj nagar",
			City:            "ghaziabad",
			State:           "uttar pradesh",
			Pincode:         201002,
		},
		PgType:           domain.PgTypeMale,
		Sharing:          []domain.SharingOption{{Occupancy: 2, Price: 6000}},
		MinPrice:         6000,
		MaxPrice:         6000,
		PgAmenities:      map[string]bool{"wifi": true},
		Food:             []domain.FoodOption{domain.FoodVeg},
		Images:           []string{"https://cdn.example.com/pg-images/images/a.jpg"},
		PgContactInfo:    domain.ContactInfo{Name: "Ravi", Phone: "+91 98765 43210", Email: "ravi@example.com"},
		NoticePeriodDays: 30,
		SecurityDeposit:  12000,
		Location:         &domain.GeoPoint{Type: "Point", Coordinates: [2]float64{77.45, 28.67}},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestValidateListing_Valid(t *testing.T) {
	assert.NoError(t, ValidateListing(validListing()))
}

func TestValidateListing_Rejects(t *testing.T) {
	tests := map[string]func(*domain.Listing){
		"no sharing":         func(l *domain.Listing) { l.Sharing = nil },
		"bad pgType":         func(l *domain.Listing) { l.PgType = "robots" },
		"short pincode":      func(l *domain.Listing) { l.Address.Pincode = 12 },
		"zero occupancy":     func(l *domain.Listing) { l.Sharing[0].Occupancy = 0 },
		"bad phone":          func(l *domain.Listing) { l.PgContactInfo.Phone = "call me" },
		"bad email":          func(l *domain.Listing) { l.PgContactInfo.Email = "not-an-email" },
		"image not a url":    func(l *domain.Listing) { l.Images = []string{"not a url"} },
		"latitude too large": func(l *domain.Listing) { l.Location.Coordinates[1] = 123 },
		"missing owner":      func(l *domain.Listing) { l.PgOwner = "" },
		"negative deposit":   func(l *domain.Listing) { l.SecurityDeposit = -1 },
		"duplicate food":     func(l *domain.Listing) { l.Food = []domain.FoodOption{"veg", "veg"} },
		"notice over a year": func(l *domain.Listing) { l.NoticePeriodDays = 400 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			l := validListing()
			mutate(l)
			err := ValidateListing(l)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestValidateListingPatch(t *testing.T) {
	assert.NoError(t, ValidateListingPatch(map[string]any{
		"name":     "Green View",
		"sharing":  []domain.SharingOption{{Occupancy: 1, Price: 9000}},
		"minPrice": 9000.0,
		"maxPrice": 9000.0,
	}))

	err := ValidateListingPatch(map[string]any{"pgOwner": "someone-else"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	err = ValidateListingPatch(map[string]any{"pgType": "robots"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
