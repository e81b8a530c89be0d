package usecase

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CreateListingInput is the create form as received. Nested structures are
// JSON documents carried in string fields.
type CreateListingInput struct {
	Name             string
	PgType           string
	Food             []string
	PgAmenities      string
	PgRules          string
	Sharing          string
	Address          string
	PgContactInfo    string
	Location         string
	NoticePeriodDays string
	SecurityDeposit  string
}

// Number accepts a JSON number or a string holding one.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.InputError("%s is not a number", string(b))
	}
	*n = Number(f)
	return nil
}

type AddressInput struct {
	Locality string `json:"locality"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  Number `json:"pincode"`
}

type SharingInput struct {
	Occupancy Number `json:"occupancy"`
	Price     Number `json:"price"`
}

// CapitalizeEachWord upper-cases the first character of every
// whitespace-separated token and leaves the rest of the token untouched,
// so "sector 12b" stays "Sector 12b" and "raj-nagar" becomes "Raj-nagar".
func CapitalizeEachWord(s string) string {
	upper := cases.Upper(language.Und)
	var b strings.Builder
	b.Grow(len(s))
	tokenStart := true
	for _, r := range s {
		if tokenStart && !unicode.IsSpace(r) {
			b.WriteString(upper.String(string(r)))
		} else {
			b.WriteRune(r)
		}
		tokenStart = unicode.IsSpace(r)
	}
	return b.String()
}

// NormalizeAddress derives the display and match copies of the locality
// from the same raw value.
func NormalizeAddress(in AddressInput) (domain.Address, error) {
	locality := strings.TrimSpace(in.Locality)
	if locality == "" || strings.TrimSpace(in.City) == "" {
		return domain.Address{}, domain.InputError("address needs a locality and a city")
	}
	pincode, err := wholeNumber("address.pincode", float64(in.Pincode))
	if err != nil {
		return domain.Address{}, err
	}
	return domain.Address{
		DisplayLocality: CapitalizeEachWord(locality),
		MatchLocality:   strings.ToLower(locality),
		City:            strings.ToLower(strings.TrimSpace(in.City)),
		State:           strings.ToLower(strings.TrimSpace(in.State)),
		Pincode:         pincode,
	}, nil
}

func normalizeSharing(in []SharingInput) ([]domain.SharingOption, error) {
	if len(in) == 0 {
		return nil, domain.InputError("sharing must contain at least one option")
	}
	out := make([]domain.SharingOption, 0, len(in))
	for _, s := range in {
		occ, err := wholeNumber("sharing.occupancy", float64(s.Occupancy))
		if err != nil {
			return nil, err
		}
		if occ <= 0 || s.Price < 0 {
			return nil, domain.InputError("sharing option {occupancy: %d, price: %v} is out of range", occ, float64(s.Price))
		}
		out = append(out, domain.SharingOption{Occupancy: occ, Price: float64(s.Price)})
	}
	return out, nil
}

func normalizeFood(in []string) ([]domain.FoodOption, error) {
	if len(in) == 1 && strings.HasPrefix(strings.TrimSpace(in[0]), "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(in[0]), &decoded); err != nil {
			return nil, domain.InputError("food is not valid JSON")
		}
		in = decoded
	}
	out := make([]domain.FoodOption, 0, len(in))
	for _, f := range in {
		opt := domain.FoodOption(strings.ToLower(strings.TrimSpace(f)))
		if !opt.Valid() {
			return nil, domain.InputError("unknown food option %q", f)
		}
		out = append(out, opt)
	}
	return out, nil
}

func normalizePgType(raw string) (domain.PgType, error) {
	t := domain.PgType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", domain.InputError("pgType must be male, female or mixed")
	}
	return t, nil
}

// normalizeLocation validates a GeoJSON point and returns its geohash.
func normalizeLocation(p *domain.GeoPoint) (string, error) {
	if p.Type != "Point" {
		return "", domain.InputError("location must be a GeoJSON Point")
	}
	if math.Abs(p.Lng()) > 180 || math.Abs(p.Lat()) > 90 {
		return "", domain.InputError("location coordinates are out of range")
	}
	return geohash.Encode(p.Lat(), p.Lng()), nil
}

func wholeNumber(field string, f float64) (int, error) {
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, domain.InputError("%s must be a whole number", field)
	}
	return int(f), nil
}

// parseInt and parseFloat treat an empty value as zero.
func parseInt(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InputError("%s must be a whole number", field)
	}
	return n, nil
}

func parseFloat(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.InputError("%s must be a number", field)
	}
	return f, nil
}

func decodeJSONField(field, raw string, dst any) error {
	if strings.TrimSpace(raw) == "" {
		return domain.InputError("%s is required", field)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return domain.InputError("%s is not valid JSON", field)
	}
	return nil
}

// NormalizeCreate turns a create form into a listing ready to persist.
func NormalizeCreate(in CreateListingInput, ownerID string, now time.Time) (*domain.Listing, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.InputError("name is required")
	}
	pgType, err := normalizePgType(in.PgType)
	if err != nil {
		return nil, err
	}

	var (
		rawSharing []SharingInput
		rawAddress AddressInput
		contact    domain.ContactInfo
		amenities  map[string]bool
		rules      map[string]bool
	)
	if err := decodeJSONField("sharing", in.Sharing, &rawSharing); err != nil {
		return nil, err
	}
	if err := decodeJSONField("address", in.Address, &rawAddress); err != nil {
		return nil, err
	}
	if err := decodeJSONField("pgContactInfo", in.PgContactInfo, &contact); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PgAmenities) != "" {
		if err := decodeJSONField("pgAmenities", in.PgAmenities, &amenities); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.PgRules) != "" {
		if err := decodeJSONField("pgRules", in.PgRules, &rules); err != nil {
			return nil, err
		}
	}

	sharing, err := normalizeSharing(rawSharing)
	if err != nil {
		return nil, err
	}
	address, err := NormalizeAddress(rawAddress)
	if err != nil {
		return nil, err
	}
	food, err := normalizeFood(in.Food)
	if err != nil {
		return nil, err
	}
	notice, err := parseInt("noticePeriodDays", in.NoticePeriodDays)
	if err != nil {
		return nil, err
	}
	deposit, err := parseFloat("securityDeposit", in.SecurityDeposit)
	if err != nil {
		return nil, err
	}

	l := &domain.Listing{
		PgOwner:          ownerID,
		Name:             CapitalizeEachWord(name),
		Address:          address,
		PgType:           pgType,
		Sharing:          sharing,
		PgAmenities:      amenities,
		PgRules:          rules,
		Food:             food,
		Images:           []string{},
		PgContactInfo:    contact,
		NoticePeriodDays: notice,
		SecurityDeposit:  deposit,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	l.RecomputePriceBounds()

	if strings.TrimSpace(in.Location) != "" {
		var loc domain.GeoPoint
		if err := decodeJSONField("location", in.Location, &loc); err != nil {
			return nil, err
		}
		if l.Geohash, err = normalizeLocation(&loc); err != nil {
			return nil, err
		}
		l.Location = &loc
	}
	return l, nil
}

// UpdateListingInput is the JSON body of a listing update. Absent fields are
// left unchanged. Prices are derived from sharing and cannot be set directly.
type UpdateListingInput struct {
	Name             *string             `json:"name"`
	Address          *AddressInput       `json:"address"`
	PgType           *string             `json:"pgType"`
	Sharing          []SharingInput      `json:"sharing"`
	PgAmenities      map[string]bool     `json:"pgAmenities"`
	PgRules          map[string]bool     `json:"pgRules"`
	Food             []string            `json:"food"`
	PgContactInfo    *domain.ContactInfo `json:"pgContactInfo"`
	NoticePeriodDays *Number             `json:"noticePeriodDays"`
	SecurityDeposit  *Number             `json:"securityDeposit"`
	Location         *domain.GeoPoint    `json:"location"`
}

// NormalizeUpdate applies the create-path normalization to the present fields.
func NormalizeUpdate(in UpdateListingInput, now time.Time) (domain.ListingUpdate, error) {
	upd := domain.ListingUpdate{UpdatedAt: now}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return upd, domain.InputError("name cannot be empty")
		}
		name = CapitalizeEachWord(name)
		upd.Name = &name
	}
	if in.Address != nil {
		addr, err := NormalizeAddress(*in.Address)
		if err != nil {
			return upd, err
		}
		upd.Address = &addr
	}
	if in.PgType != nil {
		t, err := normalizePgType(*in.PgType)
		if err != nil {
			return upd, err
		}
		upd.PgType = &t
	}
	if in.Sharing != nil {
		sharing, err := normalizeSharing(in.Sharing)
		if err != nil {
			return upd, err
		}
		minPrice, maxPrice, _ := domain.PriceBounds(sharing)
		upd.Sharing, upd.MinPrice, upd.MaxPrice = sharing, &minPrice, &maxPrice
	}
	upd.PgAmenities = in.PgAmenities
	upd.PgRules = in.PgRules
	if in.Food != nil {
		food, err := normalizeFood(in.Food)
		if err != nil {
			return upd, err
		}
		upd.Food = food
	}
	upd.PgContactInfo = in.PgContactInfo
	if in.NoticePeriodDays != nil {
		n, err := wholeNumber("noticePeriodDays", float64(*in.NoticePeriodDays))
		if err != nil {
			return upd, err
		}
		upd.NoticePeriodDays = &n
	}
	if in.SecurityDeposit != nil {
		d := float64(*in.SecurityDeposit)
		upd.SecurityDeposit = &d
	}
	if in.Location != nil {
		gh, err := normalizeLocation(in.Location)
		if err != nil {
			return upd, err
		}
		upd.Location, upd.Geohash = in.Location, &gh
	}
	return upd, nil
}
