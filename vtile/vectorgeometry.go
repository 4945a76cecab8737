package vtile

// VectorGeometry is an MVT command stream tagged with the geometry type it
// encodes. It is logically immutable and value-semantic: instances may be
// freely aliased and shared across goroutines. Decode is a pure function of
// (Commands, GeomType); it is never memoized, so callers that decode
// repeatedly should cache the result themselves.
type VectorGeometry struct {
	Commands []int32
	GeomType GeometryType
}

// Decode reconstructs the Geometry this command stream encodes.
func (g VectorGeometry) Decode() (Geometry, error) {
	return decodeCommands(g.GeomType, g.Commands)
}

// Equal reports whether g and other encode the same geometry type and
// command stream.
func (g VectorGeometry) Equal(other VectorGeometry) bool {
	if g.GeomType != other.GeomType || len(g.Commands) != len(other.Commands) {
		return false
	}
	for i, c := range g.Commands {
		if other.Commands[i] != c {
			return false
		}
	}
	return true
}
