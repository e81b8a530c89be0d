package query

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeView_Defaults(t *testing.T) {
	v, err := ShapeView(Params{})
	require.NoError(t, err)

	assert.Equal(t, []domain.SortField{{Field: "createdAt"}}, v.Sort)
	assert.Equal(t, int64(0), v.Skip)
	assert.Equal(t, int64(20), v.Limit)
	assert.ElementsMatch(t, []string{"location", "sharing"}, v.Exclude)
}

func TestShapeView_SkipIsPageMinusOneTimesLimit(t *testing.T) {
	for page := int64(1); page <= 6; page++ {
		for _, limit := range []int64{1, 7, 20, 50} {
			p := Params{
				KeyPage:  {Scalar: strconv.FormatInt(page, 10)},
				KeyLimit: {Scalar: strconv.FormatInt(limit, 10)},
			}
			v, err := ShapeView(p)
			require.NoError(t, err)
			assert.Equal(t, (page-1)*limit, v.Skip)
			assert.Equal(t, limit, v.Limit)
		}
	}
}

func TestShapeView_NonNumericFallsBack(t *testing.T) {
	for _, raw := range []string{"abc", "", "0", "-1", "1e3"} {
		v, err := ShapeView(Params{KeyPage: {Scalar: raw}, KeyLimit: {Scalar: raw}})
		require.NoError(t, err)
		assert.Equal(t, int64(0), v.Skip, raw)
		assert.Equal(t, int64(20), v.Limit, raw)
	}
}

func TestShapeView_HugePageDoesNotOverflow(t *testing.T) {
	v, err := ShapeView(Params{KeyPage: {Scalar: strconv.FormatInt(math.MaxInt64, 10)}, KeyLimit: {Scalar: "50"}})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v.Skip)
}

func TestShapeView_Sort(t *testing.T) {
	v, err := ShapeView(Params{KeySort: {Scalar: "-minPrice, name,,-minPrice"}})
	require.NoError(t, err)
	assert.Equal(t, []domain.SortField{
		{Field: "minPrice", Descending: true},
		{Field: "name"},
	}, v.Sort)

	_, err = ShapeView(Params{KeySort: {Scalar: "-secret"}})
	assert.True(t, errors.Is(err, domain.ErrInputFormat))
}

func TestShapeView_FieldsIsIgnored(t *testing.T) {
	v, err := ShapeView(Params{KeyFields: {Scalar: "name,location"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"location", "sharing"}, v.Exclude)
}

func TestBuildListQuery(t *testing.T) {
	q, err := BuildListQuery(mustParams(t, "address.city=pune&page=3&limit=10&sort=-maxPrice"))
	require.NoError(t, err)

	assert.Equal(t, domain.And{domain.Equality{Field: "address.city", Value: "pune"}}, q.Filter)
	assert.Equal(t, int64(20), q.View.Skip)
	assert.Equal(t, int64(10), q.View.Limit)
}
