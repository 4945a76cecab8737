package vtile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointGeometry(t *testing.T, x, y float64) VectorGeometry {
	t.Helper()
	g, err := EncodeGeometry(Point{X: x, Y: y})
	require.NoError(t, err)
	return g
}

func TestAddLayerFeaturesDedupsAttributeDictionary(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("points", []Feature{
		{ID: 1, Geometry: pointGeometry(t, 1, 1), AttrOrder: []string{"k", "n"}, Attrs: map[string]interface{}{"k": "x", "n": 1}},
		{ID: 2, Geometry: pointGeometry(t, 2, 2), AttrOrder: []string{"k", "n"}, Attrs: map[string]interface{}{"k": "x", "n": 2}},
	})

	l := tile.layers["points"]
	require.NotNil(t, l)
	assert.Equal(t, []string{"k", "n"}, l.keys)
	assert.Equal(t, []TypedValue{StringValue("x"), Sint64Value(1), Sint64Value(2)}, l.values)

	require.Len(t, l.features, 2)
	assert.Equal(t, []int32{0, 0, 1, 1}, l.features[0].tags)
	assert.Equal(t, []int32{0, 0, 1, 2}, l.features[1].tags)
}

func TestAddLayerFeaturesSkipsZeroCommandGeometry(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("empty", []Feature{
		{ID: 1, Geometry: VectorGeometry{}},
	})
	assert.Empty(t, tile.layers)
	assert.Empty(t, tile.Encode())
}

func TestAddLayerFeaturesDropsNilAttrValues(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("points", []Feature{
		{ID: 1, Geometry: pointGeometry(t, 1, 1), AttrOrder: []string{"a", "b"}, Attrs: map[string]interface{}{"a": "x", "b": nil}},
	})
	l := tile.layers["points"]
	require.NotNil(t, l)
	assert.Equal(t, []string{"a"}, l.keys)
	assert.Equal(t, []int32{0, 0}, l.features[0].tags)
}

func TestEncodeThenParseRoundTrips(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("points", []Feature{
		{
			ID:        7,
			Geometry:  pointGeometry(t, 5, 5),
			AttrOrder: []string{"name", "score", "active"},
			Attrs: map[string]interface{}{
				"name":   "alice",
				"score":  int64(42),
				"active": true,
			},
		},
	})
	encoded := tile.Encode()
	require.NotEmpty(t, encoded)

	layers, err := ParseTile(encoded)
	require.NoError(t, err)
	require.Len(t, layers, 1)

	layer := layers[0]
	assert.Equal(t, "points", layer.Name)
	assert.Equal(t, uint32(Extent), layer.Extent)
	require.Len(t, layer.Features, 1)

	f := layer.Features[0]
	assert.Equal(t, int64(7), f.ID)
	assert.Equal(t, NoGroup, f.Group)
	assert.Equal(t, StringValue("alice"), f.Attrs["name"])
	assert.Equal(t, Sint64Value(42), f.Attrs["score"])
	assert.Equal(t, BoolValue(true), f.Attrs["active"])

	geom, err := f.Geometry.Decode()
	require.NoError(t, err)
	pt, ok := geom.(Point)
	require.True(t, ok)
	assert.InDelta(t, 5.0, pt.X, 1.0/Scale)
	assert.InDelta(t, 5.0, pt.Y, 1.0/Scale)
}

func TestEncodeOmitsLayersWithNoSurvivingFeatures(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("real", []Feature{{ID: 1, Geometry: pointGeometry(t, 0, 0)}})
	tile.AddLayerFeatures("dead", []Feature{{ID: 1, Geometry: VectorGeometry{}}})

	layers, err := ParseTile(tile.Encode())
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, "real", layers[0].Name)
}

func TestParseTileRejectsOutOfRangeTagIndex(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("points", []Feature{{ID: 1, Geometry: pointGeometry(t, 0, 0)}})
	l := tile.layers["points"]
	l.features[0].tags = []int32{99, 0}

	_, err := ParseTile(tile.Encode())
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParseTileRejectsOddTagCount(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("points", []Feature{
		{ID: 1, Geometry: pointGeometry(t, 0, 0), AttrOrder: []string{"k"}, Attrs: map[string]interface{}{"k": "x"}},
	})
	l := tile.layers["points"]
	l.features[0].tags = []int32{0, 0, 1}

	_, err := ParseTile(tile.Encode())
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNegativeIDOmittedFromWire(t *testing.T) {
	tile := NewTile()
	tile.AddLayerFeatures("points", []Feature{{ID: -1, Geometry: pointGeometry(t, 0, 0)}})

	layers, err := ParseTile(tile.Encode())
	require.NoError(t, err)
	assert.Equal(t, int64(0), layers[0].Features[0].ID)
}
