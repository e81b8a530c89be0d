package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
)

// SearchRequest is the body of the search endpoint. Every criterion is
// optional; Sharing, Price and Sort accept numbers or numeric strings.
type SearchRequest struct {
	City      string   `json:"city"`
	Amenities []string `json:"amenities"`
	Rules     []string `json:"rules"`
	PgType    []string `json:"pgType"`
	Food      []string `json:"food"`
	Sharing   []any    `json:"sharing"`
	Price     []any    `json:"price"`
	Sort      any      `json:"sort"`
}

// DecodeSearchRequest reads a search body. An empty body is a search without
// criteria.
func DecodeSearchRequest(r io.Reader) (SearchRequest, error) {
	var req SearchRequest
	body, err := io.ReadAll(r)
	if err != nil {
		return req, domain.InputError("cannot read search body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return req, domain.InputError("search field %q has the wrong type", typeErr.Field)
		}
		return req, domain.InputError("malformed search body")
	}
	return req, nil
}

// ComposeSearch builds the conjunctive search predicate and the minPrice
// ordering. Search results are not paginated.
func ComposeSearch(req SearchRequest) (ListQuery, error) {
	clauses := domain.And{}

	if city := strings.ToLower(strings.TrimSpace(req.City)); city != "" {
		clauses = append(clauses, domain.Equality{Field: "address.city", Value: city})
	}
	for _, name := range req.Amenities {
		if !IsIdentifier(name) {
			return ListQuery{}, domain.InputError("invalid amenity name %q", name)
		}
		clauses = append(clauses, domain.Equality{Field: "pgAmenities." + name, Value: true})
	}
	for _, name := range req.Rules {
		if !IsIdentifier(name) {
			return ListQuery{}, domain.InputError("invalid rule name %q", name)
		}
		clauses = append(clauses, domain.Equality{Field: "pgRules." + name, Value: true})
	}
	if len(req.PgType) > 0 {
		values := make([]any, 0, len(req.PgType))
		for _, t := range req.PgType {
			if !domain.PgType(t).Valid() {
				return ListQuery{}, domain.InputError("unknown pgType %q", t)
			}
			values = append(values, t)
		}
		clauses = append(clauses, domain.SetMembership{Field: "pgType", Values: values})
	}
	if len(req.Food) > 0 {
		values := make([]any, 0, len(req.Food))
		for _, f := range req.Food {
			if !domain.FoodOption(f).Valid() {
				return ListQuery{}, domain.InputError("unknown food option %q", f)
			}
			values = append(values, f)
		}
		clauses = append(clauses, domain.SetMembership{Field: "food", Values: values})
	}
	if len(req.Sharing) > 0 {
		values := make([]any, 0, len(req.Sharing))
		for _, el := range req.Sharing {
			n, err := toNumber(el)
			if err != nil || n != math.Trunc(n) {
				return ListQuery{}, domain.InputError("sharing occupancy %v is not a whole number", el)
			}
			values = append(values, int64(n))
		}
		clauses = append(clauses, domain.SetMembership{Field: "sharing.occupancy", Values: values})
	}
	switch len(req.Price) {
	case 0:
	case 2:
		lo, err := toNumber(req.Price[0])
		if err != nil {
			return ListQuery{}, domain.InputError("price bound %v is not a number", req.Price[0])
		}
		hi, err := toNumber(req.Price[1])
		if err != nil {
			return ListQuery{}, domain.InputError("price bound %v is not a number", req.Price[1])
		}
		clauses = append(clauses, domain.And{
			domain.Range{Field: "minPrice", Op: domain.OpGte, Value: lo},
			domain.Range{Field: "maxPrice", Op: domain.OpLte, Value: hi},
		})
	default:
		return ListQuery{}, domain.InputError("price must be a [min, max] pair")
	}

	desc, err := sortDirection(req.Sort)
	if err != nil {
		return ListQuery{}, err
	}
	return ListQuery{
		Filter: clauses,
		View:   domain.View{Sort: []domain.SortField{{Field: "minPrice", Descending: desc}}},
	}, nil
}

// sortDirection accepts 1 or -1; absent or zero means ascending.
func sortDirection(v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	n, err := toNumber(v)
	if err != nil {
		return false, domain.InputError("sort must be 1 or -1")
	}
	switch n {
	case 0, 1:
		return false, nil
	case -1:
		return true, nil
	}
	return false, domain.InputError("sort must be 1 or -1")
}

func toNumber(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, errors.New("not numeric")
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not finite")
	}
	return f, nil
}
