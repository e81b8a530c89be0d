package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAndCompose(t *testing.T, body string) (ListQuery, error) {
	t.Helper()
	req, err := DecodeSearchRequest(strings.NewReader(body))
	require.NoError(t, err)
	return ComposeSearch(req)
}

func TestComposeSearch_NoCriteriaMatchesEverything(t *testing.T) {
	for _, body := range []string{"", "{}", `{"amenities":[],"sharing":[],"price":[]}`} {
		q, err := decodeAndCompose(t, body)
		require.NoError(t, err)
		assert.Equal(t, domain.MatchAll(), q.Filter, body)
		assert.Equal(t, []domain.SortField{{Field: "minPrice"}}, q.View.Sort)
		assert.Zero(t, q.View.Limit)
	}
}

func TestComposeSearch_AllCriteria(t *testing.T) {
	q, err := decodeAndCompose(t, `{
		"city": "Pune",
		"amenities": ["wifi", "parking"],
		"rules": ["smoking"],
		"pgType": ["male", "mixed"],
		"food": ["veg"],
		"sharing": ["2", 3],
		"price": [5000, 7500],
		"sort": -1
	}`)
	require.NoError(t, err)

	assert.Equal(t, domain.And{
		domain.Equality{Field: "address.city", Value: "pune"},
		domain.Equality{Field: "pgAmenities.wifi", Value: true},
		domain.Equality{Field: "pgAmenities.parking", Value: true},
		domain.Equality{Field: "pgRules.smoking", Value: true},
		domain.SetMembership{Field: "pgType", Values: []any{"male", "mixed"}},
		domain.SetMembership{Field: "food", Values: []any{"veg"}},
		domain.SetMembership{Field: "sharing.occupancy", Values: []any{int64(2), int64(3)}},
		domain.And{
			domain.Range{Field: "minPrice", Op: domain.OpGte, Value: 5000.0},
			domain.Range{Field: "maxPrice", Op: domain.OpLte, Value: 7500.0},
		},
	}, q.Filter)
	assert.Equal(t, []domain.SortField{{Field: "minPrice", Descending: true}}, q.View.Sort)
}

func TestComposeSearch_CityIsTrimmedAndLowered(t *testing.T) {
	q, err := decodeAndCompose(t, `{"city": "  Delhi "}`)
	require.NoError(t, err)
	assert.Equal(t, domain.And{domain.Equality{Field: "address.city", Value: "delhi"}}, q.Filter)

	q, err = decodeAndCompose(t, `{"city": "   "}`)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchAll(), q.Filter)
}

func TestComposeSearch_SharingStringsAreCoerced(t *testing.T) {
	q, err := decodeAndCompose(t, `{"sharing":["2","3"]}`)
	require.NoError(t, err)
	assert.Equal(t, domain.And{
		domain.SetMembership{Field: "sharing.occupancy", Values: []any{int64(2), int64(3)}},
	}, q.Filter)
}

func TestComposeSearch_Rejects(t *testing.T) {
	tests := map[string]string{
		"single price bound":  `{"price":[5000]}`,
		"three price bounds":  `{"price":[1,2,3]}`,
		"non-numeric price":   `{"price":["low","high"]}`,
		"non-numeric sharing": `{"sharing":["two"]}`,
		"fractional sharing":  `{"sharing":[2.5]}`,
		"operator in amenity": `{"amenities":["$where"]}`,
		"dotted rule":         `{"rules":["a.b"]}`,
		"unknown pgType":      `{"pgType":["robots"]}`,
		"unknown food":        `{"food":["fish"]}`,
		"bad sort":            `{"sort":5}`,
		"non-numeric sort":    `{"sort":"up"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeAndCompose(t, body)
			assert.True(t, errors.Is(err, domain.ErrInputFormat), "got %v", err)
		})
	}
}

func TestDecodeSearchRequest_Malformed(t *testing.T) {
	_, err := DecodeSearchRequest(strings.NewReader(`{"city":`))
	assert.True(t, errors.Is(err, domain.ErrInputFormat))

	_, err = DecodeSearchRequest(strings.NewReader(`{"amenities":"wifi"}`))
	assert.True(t, errors.Is(err, domain.ErrInputFormat))
}

func TestComposeSearch_SortAcceptsStringDirection(t *testing.T) {
	q, err := decodeAndCompose(t, `{"sort":"-1"}`)
	require.NoError(t, err)
	assert.True(t, q.View.Sort[0].Descending)
}
