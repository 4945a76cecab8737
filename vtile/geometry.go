package vtile

// Coord is a planar coordinate in tile-local floating point space, i.e. in
// the range [0, Size] before scaling.
type Coord struct {
	X, Y float64
}

// Geometry is the tagged union of planar geometry shapes the codec knows how
// to encode and decode. Concrete types implement it by embedding no methods
// of their own beyond the marker below; callers type-switch on the concrete
// type, the same dispatch idiom the teacher repo uses for its Draw/DrawVec
// pair and mvtGeometryType constants.
type Geometry interface {
	isGeometry()
}

// Point is a single coordinate.
type Point Coord

func (Point) isGeometry() {}

// MultiPoint is an unordered collection of points sharing one MOVE_TO(n)
// header on the wire.
type MultiPoint []Coord

func (MultiPoint) isGeometry() {}

// LineString is an open path of at least one coordinate.
type LineString []Coord

func (LineString) isGeometry() {}

// MultiLineString is an ordered collection of independent line strings.
type MultiLineString []LineString

func (MultiLineString) isGeometry() {}

// LinearRing is a closed path whose first and last coordinates are equal,
// matching the convention decoded rings are built under (CLOSE_PATH
// re-appends the ring's first coordinate). A ring submitted for encoding
// may omit the duplicated closing coordinate; EncodeGeometry tolerates
// either form and never emits a duplicate delta pair for it.
type LinearRing []Coord

func (LinearRing) isGeometry() {}

// signedArea2 returns twice the signed area of the ring (treating it as
// closed), whose sign gives the ring's winding direction: positive for
// counter-clockwise, negative for clockwise, under a Y-up coordinate frame.
func (r LinearRing) signedArea2() float64 {
	var area float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return area
}

// isCCW reports whether the ring winds counter-clockwise.
func (r LinearRing) isCCW() bool {
	return r.signedArea2() > 0
}

// Polygon is one shell plus zero or more holes.
type Polygon struct {
	Exterior LinearRing
	Holes    []LinearRing
}

func (Polygon) isGeometry() {}

// MultiPolygon is an ordered collection of independent polygons.
type MultiPolygon []Polygon

func (MultiPolygon) isGeometry() {}

// GeometryCollection holds zero or more geometries of mixed kind. The
// decoder returns an empty GeometryCollection when a command stream yields
// no usable sub-geometry.
type GeometryCollection []Geometry

func (GeometryCollection) isGeometry() {}
