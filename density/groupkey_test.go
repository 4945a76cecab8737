package density

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHilbertRoundTrip(t *testing.T) {
	cases := [][2]uint64{{0, 0}, {1, 1}, {100, 200}, {1 << 20, 1 << 19}}
	for _, c := range cases {
		idx := EncodeHilbert(c[0], c[1])
		x, y := DecodeHilbert(idx)
		assert.Equal(t, c[0], x)
		assert.Equal(t, c[1], y)
	}
}

func TestQuadkeyRoundTrip(t *testing.T) {
	wx, wy := uint64(12345), uint64(67890)
	idx := EncodeQuadkey(wx, wy)
	gotX, gotY := DecodeQuadkey(idx)
	assert.Equal(t, wx, gotX)
	assert.Equal(t, wy, gotY)
	assert.Equal(t, idx, EncodeQuadkey(wx, wy))
}

func TestGroupKeyIsDeterministic(t *testing.T) {
	a := GroupKey(-122.4194, 37.7749, 14)
	b := GroupKey(-122.4194, 37.7749, 14)
	assert.Equal(t, a, b)
}

func TestGroupKeyNearbyPointsShareLocality(t *testing.T) {
	a := GroupKey(-122.4194, 37.7749, 18)
	b := GroupKey(-122.4195, 37.7750, 18)
	c := GroupKey(40.7128, -74.0060, 18)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, b)
}

func TestProjectionEPSG4326RoundTrip(t *testing.T) {
	var proj EPSG4326
	x, y := proj.Project(10, 20, 14)
	lon, lat := proj.UnProject(x, y, 14)
	assert.InDelta(t, 10.0, lon, 0.01)
	// Project truncates to the pixel's corner; at zoom 14 a pixel spans
	// about 0.019 degrees of latitude near 20N.
	assert.InDelta(t, 20.0, lat, 0.02)
}

func TestProjectionEPSG4326ClampsBadInput(t *testing.T) {
	var proj EPSG4326
	x, y := proj.Project(1e300, 1e300, 10)
	assert.NotZero(t, x)
	assert.NotZero(t, y)
}
