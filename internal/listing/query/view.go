package query

import (
	"math"
	"strings"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 20
)

// List results never carry these sub-documents.
var listProjection = []string{"location", "sharing"}

var defaultSort = []domain.SortField{{Field: "createdAt"}}

// ShapeView derives sort, skip, limit and projection from the control keys.
// The fields key is accepted and ignored; the projection is fixed.
func ShapeView(p Params) (domain.View, error) {
	sortFields, err := parseSort(p[KeySort])
	if err != nil {
		return domain.View{}, err
	}

	page := ParseOrDefault(p[KeyPage].Scalar, DefaultPage)
	limit := ParseOrDefault(p[KeyLimit].Scalar, DefaultLimit)

	return domain.View{
		Sort:    sortFields,
		Skip:    skipFor(page, limit),
		Limit:   limit,
		Exclude: append([]string(nil), listProjection...),
	}, nil
}

func skipFor(page, limit int64) int64 {
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}

func parseSort(v Value) ([]domain.SortField, error) {
	if v.IsOps() {
		return nil, domain.InputError("sort does not accept operators")
	}
	raw := v.List
	if !v.IsList() {
		raw = []string{v.Scalar}
	}

	var out []domain.SortField
	seen := make(map[string]bool)
	for _, joined := range raw {
		for _, part := range strings.Split(joined, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			desc := false
			if name, ok := strings.CutPrefix(part, "-"); ok {
				desc, part = true, name
			}
			if _, err := LookupField(part); err != nil {
				return nil, err
			}
			if seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, domain.SortField{Field: part, Descending: desc})
		}
	}
	if len(out) == 0 {
		return append([]domain.SortField(nil), defaultSort...), nil
	}
	return out, nil
}

// ListQuery is a filter plus the view applied to its results.
type ListQuery struct {
	Filter domain.Predicate
	View   domain.View
}

// BuildListQuery runs the predicate builder and the view shaper over p.
func BuildListQuery(p Params) (ListQuery, error) {
	filter, err := BuildPredicate(p)
	if err != nil {
		return ListQuery{}, err
	}
	view, err := ShapeView(p)
	if err != nil {
		return ListQuery{}, err
	}
	return ListQuery{Filter: filter, View: view}, nil
}
