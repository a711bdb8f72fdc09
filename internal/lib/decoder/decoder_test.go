package decoder

import (
	"filmorate/proj/internal/domain/filters"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	d := New()

	t.Run("values", func(t *testing.T) {
		var f filters.Popular
		require.NoError(t, d.Decode(&f, url.Values{"count": {"3"}, "includeUnliked": {"false"}}))
		require.NotNil(t, f.Count)
		assert.Equal(t, 3, *f.Count)
		require.NotNil(t, f.IncludeUnliked)
		assert.False(t, *f.IncludeUnliked)
	})

	t.Run("absent values stay nil", func(t *testing.T) {
		var f filters.Popular
		require.NoError(t, d.Decode(&f, url.Values{}))
		assert.Nil(t, f.Count)
		assert.Nil(t, f.IncludeUnliked)
	})

	t.Run("bad value", func(t *testing.T) {
		var f filters.Popular
		err := d.Decode(&f, url.Values{"count": {"ten"}})
		assert.EqualError(t, err, `invalid value for query parameter "count"`)
	})

	t.Run("unknown key", func(t *testing.T) {
		var f filters.Popular
		err := d.Decode(&f, url.Values{"limit": {"1"}})
		assert.EqualError(t, err, `unknown query parameter "limit"`)

		d.IgnoreUnknownKeys(true)
		assert.NoError(t, d.Decode(&f, url.Values{"limit": {"1"}}))
	})
}
