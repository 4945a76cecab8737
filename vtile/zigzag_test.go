package vtile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZigZagRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 2, -2, 1024, -1024, math.MaxInt32, math.MinInt32}
	for _, c := range cases {
		assert.Equal(t, c, zigZagDecode(zigZagEncode(c)), "round-trip for %d", c)
	}
}

func TestZigZagSmallMagnitudeStaysSmall(t *testing.T) {
	assert.Equal(t, int32(0), zigZagEncode(0))
	assert.Equal(t, int32(1), zigZagEncode(-1))
	assert.Equal(t, int32(2), zigZagEncode(1))
	assert.Equal(t, int32(2048), zigZagEncode(1024))
}

func TestCommandHeaderRoundTrip(t *testing.T) {
	for _, cmd := range []command{cmdMoveTo, cmdLineTo, cmdClosePath} {
		for _, repeat := range []int{1, 2, 64, maxCommandRepeat} {
			header := commandAndLength(cmd, repeat)
			gotCmd, gotRepeat := splitCommand(header)
			assert.Equal(t, cmd, gotCmd)
			assert.Equal(t, repeat, gotRepeat)
		}
	}
}
