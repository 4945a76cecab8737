package vtile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSinglePointAtOrigin(t *testing.T) {
	g, err := EncodeGeometry(Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, []int32{9, 0, 0}, g.Commands)
	assert.Equal(t, GeomPoint, g.GeomType)
}

func TestEncodeSinglePointAt64_64(t *testing.T) {
	g, err := EncodeGeometry(Point{X: 64, Y: 64})
	require.NoError(t, err)
	assert.Equal(t, []int32{9, 2048, 2048}, g.Commands)
}

func TestEncodeLine(t *testing.T) {
	line := LineString{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	g, err := EncodeGeometry(line)
	require.NoError(t, err)
	assert.Equal(t, []int32{9, 0, 0, 18, 320, 320, 0, 319}, g.Commands)
	assert.Equal(t, GeomLine, g.GeomType)
}

func TestEncodeTrianglePolygonSuppressesClosingPoint(t *testing.T) {
	ring := LinearRing{{X: 0, Y: 0}, {X: 3, Y: 6}, {X: 6, Y: 1}, {X: 0, Y: 0}}
	g, err := EncodeGeometry(Polygon{Exterior: ring})
	require.NoError(t, err)
	assert.Equal(t, []int32{9, 0, 0, 18, 96, 192, 96, 159, 15}, g.Commands)
	assert.Equal(t, GeomPolygon, g.GeomType)
}

func TestEncodeDuplicatePointSuppression(t *testing.T) {
	line := LineString{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	g, err := EncodeGeometry(line)
	require.NoError(t, err)
	// MOVE_TO(1), 0,0, LINE_TO(2) with the duplicate collapsed away.
	cmd, repeat := splitCommand(g.Commands[3])
	assert.Equal(t, cmdLineTo, cmd)
	assert.Equal(t, 2, repeat)
	assert.Len(t, g.Commands, 8)
}

func TestEncodeEmptySequenceFails(t *testing.T) {
	_, err := EncodeGeometry(LineString{})
	require.Error(t, err)
	var empty *EmptyGeometryError
	assert.ErrorAs(t, err, &empty)
}

func TestEncodeUnknownGeometrySkipped(t *testing.T) {
	var warned string
	Warn = func(format string, args ...interface{}) { warned = format }
	defer func() { Warn = nil }()

	g, err := EncodeGeometry(GeometryCollection{})
	require.NoError(t, err)
	assert.Empty(t, g.Commands)
	assert.Equal(t, GeomUnknown, g.GeomType)
	assert.NotEmpty(t, warned)
}

func TestEncodeCursorPersistsAcrossRings(t *testing.T) {
	exterior := LinearRing{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	hole := LinearRing{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}}
	g, err := EncodeGeometry(Polygon{Exterior: exterior, Holes: []LinearRing{hole}})
	require.NoError(t, err)

	// Two rings, 11 ints each: MOVE_TO(1) + one delta pair, LINE_TO(3) +
	// three delta pairs, CLOSE_PATH. The cursor is not reset between them:
	// the hole's MOVE_TO delta (32,-128) is relative to the exterior's last
	// point (0,160), not absolute nor relative to (0,0).
	cmd0, _ := splitCommand(g.Commands[0])
	assert.Equal(t, cmdMoveTo, cmd0)
	require.Len(t, g.Commands, 22)
	assert.Equal(t, []int32{9, 64, 255}, g.Commands[11:14])
}
