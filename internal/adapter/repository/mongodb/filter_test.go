package mongodb

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToBSONFilter_EmptyMatchesAll(t *testing.T) {
	for _, p := range []domain.Predicate{nil, domain.And{}, domain.MatchAll()} {
		got, err := toBSONFilter(p)
		require.NoError(t, err)
		assert.Equal(t, bson.D{}, got)
	}
}

func TestToBSONFilter_Clauses(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Predicate
		want bson.D
	}{
		{
			name: "equality",
			in:   domain.Equality{Field: "address.city", Value: "delhi"},
			want: bson.D{{Key: "address.city", Value: "delhi"}},
		},
		{
			name: "range",
			in:   domain.Range{Field: "minPrice", Op: domain.OpGte, Value: 5000.0},
			want: bson.D{{Key: "minPrice", Value: bson.D{{Key: "$gte", Value: 5000.0}}}},
		},
		{
			name: "set membership",
			in:   domain.SetMembership{Field: "sharing.occupancy", Values: []any{int64(2), int64(3)}},
			want: bson.D{{Key: "sharing.occupancy", Value: bson.D{{Key: "$in", Value: bson.A{int64(2), int64(3)}}}}},
		},
		{
			name: "single item and is inlined",
			in:   domain.And{domain.Equality{Field: "pgType", Value: "male"}},
			want: bson.D{{Key: "pgType", Value: "male"}},
		},
		{
			name: "nested and",
			in: domain.And{
				domain.Equality{Field: "pgAmenities.wifi", Value: true},
				domain.And{
					domain.Range{Field: "minPrice", Op: domain.OpGte, Value: 5000.0},
					domain.Range{Field: "maxPrice", Op: domain.OpLte, Value: 7500.0},
				},
			},
			want: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "pgAmenities.wifi", Value: true}},
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "minPrice", Value: bson.D{{Key: "$gte", Value: 5000.0}}}},
					bson.D{{Key: "maxPrice", Value: bson.D{{Key: "$lte", Value: 7500.0}}}},
				}}},
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toBSONFilter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBSONFilter_RejectsOperatorsInFieldPaths(t *testing.T) {
	_, err := toBSONFilter(domain.Equality{Field: "$where", Value: "1"})
	assert.Error(t, err)

	_, err = toBSONFilter(domain.And{
		domain.Equality{Field: "name", Value: "x"},
		domain.Range{Field: "minPrice", Op: domain.OpIn, Value: 1},
	})
	assert.Error(t, err)
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(domain.View{
		Sort:    []domain.SortField{{Field: "minPrice"}, {Field: "createdAt", Descending: true}},
		Skip:    40,
		Limit:   20,
		Exclude: []string{"location", "sharing"},
	})

	assert.Equal(t, bson.D{{Key: "minPrice", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, opts.Sort)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(40), *opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "location", Value: 0}, {Key: "sharing", Value: 0}}, opts.Projection)
}

func TestFindOptions_UnboundedView(t *testing.T) {
	opts := findOptions(domain.View{})
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Sort)
	assert.Nil(t, opts.Projection)
}

func TestUpdateDocument_OnlySetFields(t *testing.T) {
	name := "Green View"
	minPrice, maxPrice := 5000.0, 8000.0
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got := updateDocument(domain.ListingUpdate{
		Name:      &name,
		Sharing:   []domain.SharingOption{{Occupancy: 1, Price: 8000}, {Occupancy: 3, Price: 5000}},
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		UpdatedAt: at,
	})

	set := got[0].Value.(bson.D)
	keys := make([]string, 0, len(set))
	for _, e := range set {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, "$set", got[0].Key)
	assert.Equal(t, []string{"name", "sharing", "minPrice", "maxPrice", "updatedAt"}, keys)

	fields := patchFields(domain.ListingUpdate{Name: &name, UpdatedAt: at})
	assert.Equal(t, map[string]any{"name": name, "updatedAt": at}, fields)
}

func TestListingDocumentRoundTrip(t *testing.T) {
	in := &domain.Listing{
		ID:       "665f1c2e8a1b2c3d4e5f6a7b",
		PgOwner:  "owner-1",
		Name:     "Sunrise Pg",
		Address:  domain.Address{DisplayLocality: "Raj Nagar", MatchLocality: "raj nagar", City: "ghaziabad", Pincode: 201002},
		PgType:   domain.PgTypeMixed,
		Sharing:  []domain.SharingOption{{Occupancy: 2, Price: 6000}},
		MinPrice: 6000,
		MaxPrice: 6000,
		Food:     []domain.FoodOption{domain.FoodBoth},
		Location: &domain.GeoPoint{Type: "Point", Coordinates: [2]float64{77.45, 28.67}},
	}
	doc, err := toListingDocument(in)
	require.NoError(t, err)
	assert.Equal(t, []string{}, doc.Images)

	out := doc.toDomain()
	in.Images = []string{}
	assert.Equal(t, in, out)

	_, err = toListingDocument(&domain.Listing{ID: "not-hex"})
	assert.Error(t, err)
}
