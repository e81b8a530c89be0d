package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	values, err := url.ParseQuery("minPrice[gte]=5000&minPrice[lt]=9000&food=veg&food=both&address.city=pune&page=2")
	require.NoError(t, err)

	p, err := ParseParams(values)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"gte": "5000", "lt": "9000"}, p["minPrice"].Ops)
	assert.Equal(t, []string{"veg", "both"}, p["food"].List)
	assert.Equal(t, "pune", p["address.city"].Scalar)
	assert.Equal(t, "2", p["page"].Scalar)
}

func TestParseParams_Malformed(t *testing.T) {
	for _, raw := range []string{
		"price[=1",
		"price]=1",
		"[gt]=1",
		"price[]=1",
		"price[gt][x]=1",
		"price=1&price[gt]=3",
	} {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err, raw)
		_, err = ParseParams(values)
		assert.True(t, errors.Is(err, domain.ErrInputFormat), raw)
	}
}
