package domain

import "time"

type PgType string

const (
	PgTypeMale   PgType = "male"
	PgTypeFemale PgType = "female"
	PgTypeMixed  PgType = "mixed"
)

func (t PgType) Valid() bool {
	switch t {
	case PgTypeMale, PgTypeFemale, PgTypeMixed:
		return true
	}
	return false
}

type FoodOption string

const (
	FoodVeg    FoodOption = "veg"
	FoodNonVeg FoodOption = "nonveg"
	FoodBoth   FoodOption = "both"
)

func (f FoodOption) Valid() bool {
	switch f {
	case FoodVeg, FoodNonVeg, FoodBoth:
		return true
	}
	return false
}

// Address keeps the locality twice: DisplayLocality is capitalized per word,
// MatchLocality is lowercased for equality filters. Both are derived from the
// raw input independently.
type Address struct {
	DisplayLocality string `json:"displayLocality"`
	MatchLocality   string `json:"matchLocality"`
	City            string `json:"city"`
	State           string `json:"state"`
	Pincode         int    `json:"pincode"`
}

type SharingOption struct {
	Occupancy int     `json:"occupancy"`
	Price     float64 `json:"price"`
}

type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// GeoPoint is a GeoJSON point, coordinates are [lng, lat].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

type Listing struct {
	ID               string          `json:"id"`
	PgOwner          string          `json:"pgOwner"`
	Name             string          `json:"name"`
	Address          Address         `json:"address"`
	PgType           PgType          `json:"pgType"`
	Sharing          []SharingOption `json:"sharing,omitempty"`
	MinPrice         float64         `json:"minPrice"`
	MaxPrice         float64         `json:"maxPrice"`
	PgAmenities      map[string]bool `json:"pgAmenities,omitempty"`
	PgRules          map[string]bool `json:"pgRules,omitempty"`
	Food             []FoodOption    `json:"food,omitempty"`
	Images           []string        `json:"images"`
	PgContactInfo    ContactInfo     `json:"pgContactInfo"`
	NoticePeriodDays int             `json:"noticePeriodDays"`
	SecurityDeposit  float64         `json:"securityDeposit"`
	Location         *GeoPoint       `json:"location,omitempty"`
	Geohash          string          `json:"geohash,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// PriceBounds returns the lowest and highest price over the sharing options.
// ok is false when there are no options.
func PriceBounds(sharing []SharingOption) (min, max float64, ok bool) {
	if len(sharing) == 0 {
		return 0, 0, false
	}
	min, max = sharing[0].Price, sharing[0].Price
	for _, s := range sharing[1:] {
		if s.Price < min {
			min = s.Price
		}
		if s.Price > max {
			max = s.Price
		}
	}
	return min, max, true
}

// RecomputePriceBounds must be called whenever Sharing changes.
func (l *Listing) RecomputePriceBounds() {
	l.MinPrice, l.MaxPrice, _ = PriceBounds(l.Sharing)
}

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ListingID string    `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
