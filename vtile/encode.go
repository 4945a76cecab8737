package vtile

import "math"

// commandEncoder traverses a single Geometry and emits its MVT command
// stream. A fresh commandEncoder is built for every call to EncodeGeometry,
// so its cursor starts at (0, 0) for each top-level geometry; the cursor is
// held in the encoder's own fields across the traversal of a geometry's
// own sub-parts
// (polygon rings, multipolygon members) rather than through a hidden
// package-level global, per the Design Notes on cursor sharing.
type commandEncoder struct {
	x, y   int32
	result []int32
}

func scaleCoord(c Coord) (int32, int32) {
	return int32(math.Round(c.X * Scale)), int32(math.Round(c.Y * Scale))
}

// EncodeGeometry traverses geometry and returns its MVT command stream,
// tagged with the geometry type it was produced from. An unrecognized
// Geometry implementation is skipped: EncodeGeometry reports it via Warn and
// returns a VectorGeometry with an empty command array and GeomUnknown.
func EncodeGeometry(geometry Geometry) (VectorGeometry, error) {
	enc := &commandEncoder{}
	if err := enc.accept(geometry); err != nil {
		return VectorGeometry{}, err
	}
	return VectorGeometry{Commands: enc.result, GeomType: geometryTypeOf(geometry)}, nil
}

func (e *commandEncoder) accept(geometry Geometry) error {
	switch g := geometry.(type) {
	case Point:
		return e.encodeSequence([]Coord{Coord(g)}, false, false)
	case MultiPoint:
		return e.encodeSequence(g, false, true)
	case LineString:
		return e.encodeSequence(g, false, false)
	case MultiLineString:
		for _, ls := range g {
			if err := e.encodeSequence(ls, false, false); err != nil {
				return err
			}
		}
		return nil
	case LinearRing:
		return e.encodeSequence(g, true, false)
	case Polygon:
		if err := e.encodeSequence(g.Exterior, true, false); err != nil {
			return err
		}
		for _, hole := range g.Holes {
			if err := e.encodeSequence(hole, true, false); err != nil {
				return err
			}
		}
		return nil
	case MultiPolygon:
		for _, poly := range g {
			if err := e.accept(poly); err != nil {
				return err
			}
		}
		return nil
	default:
		warnf("vtile: unrecognized geometry type %T, skipping", geometry)
		return nil
	}
}

// encodeSequence emits the command stream for one coordinate sequence: a
// point, a multipoint fan, an open line string, or a ring that closes with
// CLOSE_PATH. It mirrors the teacher's single-purpose serialization helpers
// (WriteGeom in serial.go) but operates on in-memory Coords instead of file
// offsets.
func (e *commandEncoder) encodeSequence(coords []Coord, closePathAtEnd, multiPoint bool) error {
	if len(coords) == 0 {
		return &EmptyGeometryError{Kind: "coordinate sequence"}
	}

	lineToIndex := -1
	lineToLength := 0

	for i, c := range coords {
		if i == 0 {
			repeat := 1
			if multiPoint {
				repeat = len(coords)
			}
			e.result = append(e.result, commandAndLength(cmdMoveTo, repeat))
		}

		sx, sy := scaleCoord(c)

		if i > 0 && !multiPoint && sx == e.x && sy == e.y {
			lineToLength--
			continue
		}

		if closePathAtEnd && len(coords) > 1 && i == len(coords)-1 &&
			coords[0].X == c.X && coords[0].Y == c.Y {
			lineToLength--
			continue
		}

		e.result = append(e.result, zigZagEncode(sx-e.x), zigZagEncode(sy-e.y))
		e.x, e.y = sx, sy

		if i == 0 && len(coords) > 1 && !multiPoint {
			lineToIndex = len(e.result)
			lineToLength = len(coords) - 1
			e.result = append(e.result, commandAndLength(cmdLineTo, lineToLength))
		}
	}

	if lineToIndex >= 0 {
		if lineToLength == 0 {
			e.result = append(e.result[:lineToIndex], e.result[lineToIndex+1:]...)
		} else {
			e.result[lineToIndex] = commandAndLength(cmdLineTo, lineToLength)
		}
	}

	if closePathAtEnd {
		e.result = append(e.result, commandAndLength(cmdClosePath, 1))
	}

	return nil
}
