package vtile

// layer accumulates one output layer's encoded features, plus the key and
// value dictionaries that let each feature reference its attributes as a
// pair of dense integer ids. Go maps have no defined iteration order, so
// each dictionary keeps an append-only slice as the source of truth for
// wire order and a map purely for O(1) lookup, per the Design Notes on
// insertion-ordered dictionaries.
type layer struct {
	features []encodedFeature

	keys    []string
	keyIDs  map[string]int32

	values   []TypedValue
	valueIDs map[TypedValue]int32
}

func newLayer() *layer {
	return &layer{
		keyIDs:   make(map[string]int32),
		valueIDs: make(map[TypedValue]int32),
	}
}

// keyID returns the dense id for key, assigning the next one if key has not
// been seen by this layer before.
func (l *layer) keyID(key string) int32 {
	if id, ok := l.keyIDs[key]; ok {
		return id
	}
	id := int32(len(l.keys))
	l.keys = append(l.keys, key)
	l.keyIDs[key] = id
	return id
}

// valueID returns the dense id for value, assigning the next one if this
// exact (kind, representation) value has not been seen by this layer
// before.
func (l *layer) valueID(value TypedValue) int32 {
	if id, ok := l.valueIDs[value]; ok {
		return id
	}
	id := int32(len(l.values))
	l.values = append(l.values, value)
	l.valueIDs[value] = id
	return id
}
