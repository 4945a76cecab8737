package vtile

import (
	"math"

	"github.com/atlasdatatech/govtile/vtpbf"
)

// Field numbers from the Mapbox Vector Tile protobuf schema (vector_tile.pb,
// v2.1). vtpbf has no notion of these; they live here, next to the message
// shapes they describe, the way hand-written marshal code sits next to its
// schema comment when there is no .pb.go to carry it.
const (
	fieldTileLayers = 3

	fieldLayerName     = 1
	fieldLayerFeatures = 2
	fieldLayerKeys     = 3
	fieldLayerValues   = 4
	fieldLayerExtent   = 5
	fieldLayerVersion  = 15

	fieldFeatureID       = 1
	fieldFeatureTags     = 2
	fieldFeatureType     = 3
	fieldFeatureGeometry = 4

	fieldValueString = 1
	fieldValueFloat  = 2
	fieldValueDouble = 3
	fieldValueInt    = 4
	fieldValueUint   = 5
	fieldValueSint   = 6
	fieldValueBool   = 7
)

// layerVersion is the MVT spec version this codec reads and writes.
const layerVersion = 2

func marshalValue(v TypedValue) []byte {
	w := vtpbf.NewWriter()
	switch v.Kind {
	case KindString:
		w.StringField(fieldValueString, v.Str)
	case KindFloat32:
		w.Fixed32Field(fieldValueFloat, math.Float32bits(v.F32))
	case KindFloat64:
		w.Fixed64Field(fieldValueDouble, math.Float64bits(v.F64))
	case KindInt64:
		w.Int64Field(fieldValueInt, v.Int)
	case KindUint64:
		w.Uint64Field(fieldValueUint, v.Uint)
	case KindSint64:
		w.Sint64Field(fieldValueSint, v.Int)
	case KindBool:
		w.BoolField(fieldValueBool, v.Bool)
	}
	return w.Bytes()
}

func marshalFeature(ef encodedFeature) []byte {
	w := vtpbf.NewWriter()
	if ef.id >= 0 {
		w.Uint64Field(fieldFeatureID, uint64(ef.id))
	}
	if len(ef.tags) > 0 {
		w.PackedVarintsField(fieldFeatureTags, ef.tags)
	}
	w.Uint64Field(fieldFeatureType, uint64(ef.geometry.GeomType))
	if len(ef.geometry.Commands) > 0 {
		w.PackedVarintsField(fieldFeatureGeometry, ef.geometry.Commands)
	}
	return w.Bytes()
}

func marshalLayer(name string, l *layer) []byte {
	w := vtpbf.NewWriter()
	w.Uint64Field(fieldLayerVersion, layerVersion)
	w.StringField(fieldLayerName, name)
	for _, ef := range l.features {
		w.BytesField(fieldLayerFeatures, marshalFeature(ef))
	}
	for _, k := range l.keys {
		w.StringField(fieldLayerKeys, k)
	}
	for _, v := range l.values {
		w.BytesField(fieldLayerValues, marshalValue(v))
	}
	w.Uint64Field(fieldLayerExtent, Extent)
	return w.Bytes()
}

// marshalTile serializes the tile's layers, in insertion order, into an
// uncompressed MVT protobuf byte string.
func marshalTile(t *Tile) []byte {
	w := vtpbf.NewWriter()
	for _, name := range t.layerNames {
		l := t.layers[name]
		if len(l.features) == 0 {
			continue
		}
		w.BytesField(fieldTileLayers, marshalLayer(name, l))
	}
	return w.Bytes()
}
