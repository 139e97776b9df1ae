package prep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanySizeScore(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"S": 1, "M": 2, "L": 3, "X": 0, "": 0, "s": 0}
	for code, want := range cases {
		assert.Equal(t, want, CompanySizeScore(code), "code %q", code)
	}

	custom := SizeScale{"XS": 1, "XL": 5}
	assert.Equal(t, 5, custom.Score("XL"))
	assert.Equal(t, 0, custom.Score("M"))
}

func TestRemoteWorkIndicator(t *testing.T) {
	t.Parallel()

	assert.True(t, RemoteWorkIndicator(100))
	assert.False(t, RemoteWorkIndicator(50))
	assert.False(t, RemoteWorkIndicator(0))

	assert.True(t, RemoteIndicator(50, 50))
	assert.False(t, RemoteIndicator(100, 50))
}
