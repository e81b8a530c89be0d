package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
)

// Kind is the storage type of a filterable field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInt
	KindBool
	KindTime
)

var listingFields = map[string]Kind{
	"pgOwner":                 KindString,
	"name":                    KindString,
	"address.displayLocality": KindString,
	"address.matchLocality":   KindString,
	"address.city":            KindString,
	"address.state":           KindString,
	"address.pincode":         KindInt,
	"pgType":                  KindString,
	"sharing.occupancy":       KindInt,
	"sharing.price":           KindNumber,
	"minPrice":                KindNumber,
	"maxPrice":                KindNumber,
	"food":                    KindString,
	"pgContactInfo.name":      KindString,
	"pgContactInfo.phone":     KindString,
	"noticePeriodDays":        KindInt,
	"securityDeposit":         KindNumber,
	"geohash":                 KindString,
	"createdAt":               KindTime,
	"updatedAt":               KindTime,
}

// Keys under these prefixes are free-form flags stored as booleans.
var flagPrefixes = []string{"pgAmenities.", "pgRules."}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name is safe to embed in a dotted field path.
func IsIdentifier(name string) bool { return identRe.MatchString(name) }

// LookupField resolves a field name against the listing allow-list.
func LookupField(name string) (Kind, error) {
	if k, ok := listingFields[name]; ok {
		return k, nil
	}
	for _, prefix := range flagPrefixes {
		if rest, ok := strings.CutPrefix(name, prefix); ok && IsIdentifier(rest) {
			return KindBool, nil
		}
	}
	return 0, domain.InputError("unknown field %q", name)
}

// Coerce converts a raw string into the Go value stored for kind.
func Coerce(field string, kind Kind, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	switch kind {
	case KindString:
		return raw, nil
	case KindNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, domain.InputError("field %q expects a number, got %q", field, raw)
		}
		return f, nil
	case KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, domain.InputError("field %q expects an integer, got %q", field, raw)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, domain.InputError("field %q expects true or false, got %q", field, raw)
		}
		return b, nil
	case KindTime:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, domain.InputError("field %q expects an RFC 3339 time or a date, got %q", field, raw)
	}
	return nil, domain.InputError("field %q has an unsupported type", field)
}
