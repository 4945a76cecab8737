package vtile

// Tile accumulates named layers of features and serializes them into an MVT
// protobuf byte string. It is a mutable sink owned exclusively by its
// constructing goroutine (Section 5): build one per output tile, never
// share a Tile across goroutines while it is still being written to.
type Tile struct {
	layerNames []string
	layers     map[string]*layer
}

// NewTile returns an empty tile builder.
func NewTile() *Tile {
	return &Tile{layers: make(map[string]*layer)}
}

// AddLayerFeatures appends features to the named layer, creating the layer
// on first use, and returns the Tile for chaining. A feature whose geometry
// encoded to zero commands is skipped entirely (it would describe nothing on
// the wire). Each surviving feature's attributes are interned into the
// layer's key/value dictionaries in Feature.attrOrder order; an attribute
// with a nil value is dropped rather than interned.
func (t *Tile) AddLayerFeatures(layerName string, features []Feature) *Tile {
	if len(features) == 0 {
		return t
	}

	var l *layer

	for _, f := range features {
		if len(f.Geometry.Commands) == 0 {
			continue
		}

		if l == nil {
			var ok bool
			l, ok = t.layers[layerName]
			if !ok {
				l = newLayer()
				t.layers[layerName] = l
				t.layerNames = append(t.layerNames, layerName)
			}
		}

		ef := encodedFeature{id: f.ID, geometry: f.Geometry}
		for _, key := range f.attrOrder() {
			val, ok := f.Attrs[key]
			if !ok || val == nil {
				continue
			}
			ef.tags = append(ef.tags, l.keyID(key), l.valueID(CoerceValue(val)))
		}
		l.features = append(l.features, ef)
	}

	return t
}

// Encode serializes every layer added so far into an uncompressed MVT
// protobuf byte string, in layer-insertion order.
func (t *Tile) Encode() []byte {
	return marshalTile(t)
}
