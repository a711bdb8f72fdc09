package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopularDefaults(t *testing.T) {
	count, include := 3, false
	assert.Equal(t, 10, Popular{}.CountOr(10))
	assert.True(t, Popular{}.IncludeUnlikedOr(true))
	p := Popular{Count: &count, IncludeUnliked: &include}
	assert.Equal(t, 3, p.CountOr(10))
	assert.False(t, p.IncludeUnlikedOr(true))
}
