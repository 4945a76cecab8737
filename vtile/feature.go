package vtile

import "math"

// NoGroup is the sentinel Feature.Group value meaning "ungrouped". It sits
// far outside any legitimate grouping key range a density-control pass would
// assign.
const NoGroup int64 = math.MinInt64

// Feature is a single tile feature prior to attribute interning: an encoded
// geometry plus loose, named attributes. Attrs values are coerced into
// TypedValues by CoerceValue when the feature is added to a tile (Rule E1);
// a nil value means the attribute is dropped rather than interned, matching
// "skip attribute without value". Group is a caller-assigned density control
// key; it is never written to the wire and ParseTile always returns NoGroup
// for it.
type Feature struct {
	Layer    string
	ID       int64
	Geometry VectorGeometry
	Attrs    map[string]interface{}
	// AttrOrder, if non-nil, fixes the iteration order add_layer_features
	// walks Attrs in; Go map iteration order is otherwise undefined, and
	// Section 4.F requires attributes to be interned in a stable order. If
	// nil, the order is derived from Attrs' natural (unspecified) order,
	// which is sufficient when the caller does not care about reproducible
	// key/value interning order across runs.
	AttrOrder []string
	Group     int64
}

// HasGroup reports whether the feature carries a grouping key.
func (f Feature) HasGroup() bool { return f.Group != NoGroup }

// attrOrder returns the attribute iteration order to use when interning:
// AttrOrder if the caller supplied one, otherwise the keys of Attrs in an
// arbitrary but fixed-for-this-call order.
func (f Feature) attrOrder() []string {
	if f.AttrOrder != nil {
		return f.AttrOrder
	}
	order := make([]string, 0, len(f.Attrs))
	for k := range f.Attrs {
		order = append(order, k)
	}
	return order
}

// encodedFeature is a feature whose attributes have been interned into a
// Layer's dictionaries, ready to serialize. It exists only during tile
// assembly.
type encodedFeature struct {
	tags     []int32
	id       int64
	geometry VectorGeometry
}
