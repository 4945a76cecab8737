package vtile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTripPoint(t *testing.T) {
	original := Point{X: 12, Y: 34}
	vg, err := EncodeGeometry(original)
	require.NoError(t, err)

	got, err := vg.Decode()
	require.NoError(t, err)
	assert.InDelta(t, original.X, got.(Point).X, 1.0/Scale)
	assert.InDelta(t, original.Y, got.(Point).Y, 1.0/Scale)
}

func TestDecodeRoundTripLine(t *testing.T) {
	original := LineString{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}}
	vg, err := EncodeGeometry(original)
	require.NoError(t, err)

	got, err := vg.Decode()
	require.NoError(t, err)
	line, ok := got.(LineString)
	require.True(t, ok)
	require.Len(t, line, len(original))
	for i := range original {
		assert.InDelta(t, original[i].X, line[i].X, 1.0/Scale)
		assert.InDelta(t, original[i].Y, line[i].Y, 1.0/Scale)
	}
}

func TestDecodePolygonWithHolePreservesOrientationSplit(t *testing.T) {
	exterior := LinearRing{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	hole := LinearRing{{X: 2, Y: 2}, {X: 2, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 2}}

	require.True(t, exterior.isCCW())
	require.False(t, hole.isCCW())

	vg, err := EncodeGeometry(Polygon{Exterior: exterior, Holes: []LinearRing{hole}})
	require.NoError(t, err)

	got, err := vg.Decode()
	require.NoError(t, err)
	poly, ok := got.(Polygon)
	require.True(t, ok)
	require.Len(t, poly.Holes, 1)
	assert.True(t, poly.Exterior.isCCW())
	assert.False(t, poly.Holes[0].isCCW())
}

func TestDecodeMultiplePolygonsSplitOnOrientation(t *testing.T) {
	a := LinearRing{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	b := LinearRing{{X: 10, Y: 10}, {X: 14, Y: 10}, {X: 14, Y: 14}, {X: 10, Y: 14}}
	vg, err := EncodeGeometry(MultiPolygon{{Exterior: a}, {Exterior: b}})
	require.NoError(t, err)

	got, err := vg.Decode()
	require.NoError(t, err)
	mp, ok := got.(MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
}

func TestDecodeEmptyCommandsIsEmptyCollection(t *testing.T) {
	g, err := decodeCommands(GeomPolygon, nil)
	require.NoError(t, err)
	_, ok := g.(GeometryCollection)
	assert.True(t, ok)
}

func TestDecodeLineToWithoutMoveToErrors(t *testing.T) {
	_, err := decodeCommands(GeomLine, []int32{commandAndLength(cmdLineTo, 1), 0, 0})
	require.Error(t, err)
	var decErr *DecodeError
	assert.ErrorAs(t, err, &decErr)
}

func TestDecodeTruncatedDeltaErrors(t *testing.T) {
	_, err := decodeCommands(GeomPoint, []int32{commandAndLength(cmdMoveTo, 1), 0})
	require.Error(t, err)
}

func TestDecodeInvalidCommandIDErrors(t *testing.T) {
	_, err := decodeCommands(GeomPoint, []int32{commandAndLength(command(5), 1), 0, 0})
	require.Error(t, err)
}
