package vtile

import (
	"fmt"
	"math"

	"github.com/atlasdatatech/govtile/vtpbf"
)

// ParsedLayer is one layer recovered from an encoded tile: its name, declared
// extent, and features in wire order. Feature attribute values are the exact
// TypedValue the wire held (no coercion), and Feature.Geometry is left
// undecoded — call VectorGeometry.Decode when the caller actually needs
// Coord-level geometry. Feature.Group is always NoGroup: grouping keys are a
// builder-side concept that never reaches the wire.
type ParsedLayer struct {
	Name     string
	Extent   uint32
	Features []Feature
}

// ParseTile decodes an MVT protobuf byte string into its layers, in the
// order they appear on the wire. It does not validate the invariants a tile
// built through Tile/AddLayerFeatures guarantees (e.g. dictionary
// tag-index bounds) beyond what is needed to avoid an out-of-range panic;
// malformed input yields a ParseError rather than a crash.
func ParseTile(data []byte) ([]ParsedLayer, error) {
	r := vtpbf.NewReader(data)
	var layers []ParsedLayer

	for !r.Done() {
		field, wireType, err := r.ReadTag()
		if err != nil {
			return nil, &ParseError{Reason: "reading tile tag", Err: err}
		}
		if field != fieldTileLayers {
			if err := r.Skip(wireType); err != nil {
				return nil, &ParseError{Reason: "skipping unknown tile field", Err: err}
			}
			continue
		}
		raw, err := r.ReadBytes()
		if err != nil {
			return nil, &ParseError{Reason: "reading layer bytes", Err: err}
		}
		pl, err := parseLayer(raw)
		if err != nil {
			return nil, err
		}
		layers = append(layers, pl)
	}
	return layers, nil
}

func parseLayer(data []byte) (ParsedLayer, error) {
	r := vtpbf.NewReader(data)

	pl := ParsedLayer{Extent: Extent}
	var keys []string
	var values []TypedValue
	type rawFeature struct {
		id       int64
		tags     []int32
		geomType GeometryType
		commands []int32
	}
	var rawFeatures []rawFeature

	for !r.Done() {
		field, wireType, err := r.ReadTag()
		if err != nil {
			return ParsedLayer{}, &ParseError{Reason: "reading layer tag", Err: err}
		}
		switch field {
		case fieldLayerName:
			pl.Name, err = r.ReadString()
		case fieldLayerExtent:
			var v uint64
			v, err = r.ReadVarint()
			pl.Extent = uint32(v)
		case fieldLayerVersion:
			_, err = r.ReadVarint()
		case fieldLayerKeys:
			var k string
			k, err = r.ReadString()
			keys = append(keys, k)
		case fieldLayerValues:
			var raw []byte
			raw, err = r.ReadBytes()
			if err == nil {
				var v TypedValue
				v, err = parseValue(raw)
				values = append(values, v)
			}
		case fieldLayerFeatures:
			var raw []byte
			raw, err = r.ReadBytes()
			if err == nil {
				var rf rawFeature
				rf.id, rf.tags, rf.geomType, rf.commands, err = parseFeatureFields(raw)
				rawFeatures = append(rawFeatures, rf)
			}
		default:
			err = r.Skip(wireType)
		}
		if err != nil {
			return ParsedLayer{}, &ParseError{Reason: "reading layer field", Err: err}
		}
	}

	for _, rf := range rawFeatures {
		f := Feature{
			Layer:    pl.Name,
			ID:       rf.id,
			Geometry: VectorGeometry{GeomType: rf.geomType, Commands: rf.commands},
			Attrs:    make(map[string]interface{}, len(rf.tags)/2),
			Group:    NoGroup,
		}
		if len(rf.tags)%2 != 0 {
			return ParsedLayer{}, &ParseError{Reason: fmt.Sprintf("odd tag count in layer %q", pl.Name)}
		}
		for i := 0; i+1 < len(rf.tags); i += 2 {
			keyIdx, valIdx := int(rf.tags[i]), int(rf.tags[i+1])
			if keyIdx < 0 || keyIdx >= len(keys) || valIdx < 0 || valIdx >= len(values) {
				return ParsedLayer{}, &ParseError{Reason: fmt.Sprintf("tag index out of range in layer %q", pl.Name)}
			}
			f.AttrOrder = append(f.AttrOrder, keys[keyIdx])
			f.Attrs[keys[keyIdx]] = values[valIdx]
		}
		pl.Features = append(pl.Features, f)
	}

	return pl, nil
}

func parseFeatureFields(data []byte) (id int64, tags []int32, geomType GeometryType, commands []int32, err error) {
	r := vtpbf.NewReader(data)
	for !r.Done() {
		field, wireType, terr := r.ReadTag()
		if terr != nil {
			return 0, nil, 0, nil, terr
		}
		switch field {
		case fieldFeatureID:
			var v uint64
			v, terr = r.ReadVarint()
			id = int64(v)
		case fieldFeatureTags:
			tags, terr = r.ReadPackedVarints()
		case fieldFeatureType:
			var v uint64
			v, terr = r.ReadVarint()
			geomType = GeometryType(v)
		case fieldFeatureGeometry:
			commands, terr = r.ReadPackedVarints()
		default:
			terr = r.Skip(wireType)
		}
		if terr != nil {
			return 0, nil, 0, nil, terr
		}
	}
	return id, tags, geomType, commands, nil
}

func parseValue(data []byte) (TypedValue, error) {
	r := vtpbf.NewReader(data)
	for !r.Done() {
		field, wireType, err := r.ReadTag()
		if err != nil {
			return TypedValue{}, err
		}
		switch field {
		case fieldValueString:
			s, err := r.ReadString()
			if err != nil {
				return TypedValue{}, err
			}
			return StringValue(s), nil
		case fieldValueFloat:
			bits, err := r.ReadFixed32()
			if err != nil {
				return TypedValue{}, err
			}
			return Float32Value(math.Float32frombits(bits)), nil
		case fieldValueDouble:
			bits, err := r.ReadFixed64()
			if err != nil {
				return TypedValue{}, err
			}
			return Float64Value(math.Float64frombits(bits)), nil
		case fieldValueInt:
			v, err := r.ReadVarint()
			if err != nil {
				return TypedValue{}, err
			}
			return Int64Value(int64(v)), nil
		case fieldValueUint:
			v, err := r.ReadVarint()
			if err != nil {
				return TypedValue{}, err
			}
			return Uint64Value(v), nil
		case fieldValueSint:
			v, err := r.ReadSint64()
			if err != nil {
				return TypedValue{}, err
			}
			return Sint64Value(v), nil
		case fieldValueBool:
			v, err := r.ReadVarint()
			if err != nil {
				return TypedValue{}, err
			}
			return BoolValue(v != 0), nil
		default:
			if err := r.Skip(wireType); err != nil {
				return TypedValue{}, err
			}
		}
	}
	return TypedValue{}, nil
}
