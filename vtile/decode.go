package vtile

// decodeCommands reconstructs a Geometry of the requested type from an MVT
// command stream. It is the mirror of commandEncoder.accept: a single
// forward pass over the header/delta stream building up one coordinate
// sequence per MOVE_TO, followed by a type-specific assembly pass.
func decodeCommands(geomType GeometryType, commands []int32) (Geometry, error) {
	var sequences [][]Coord
	var current *[]Coord
	var x, y int32

	i := 0
	for i < len(commands) {
		cmd, repeat := splitCommand(commands[i])
		i++

		for step := 0; step < repeat; step++ {
			switch cmd {
			case cmdMoveTo:
				sequences = append(sequences, nil)
				current = &sequences[len(sequences)-1]
				dx, dy, err := nextDelta(commands, &i)
				if err != nil {
					return nil, err
				}
				x += dx
				y += dy
				*current = append(*current, Coord{X: float64(x) / Scale, Y: float64(y) / Scale})
			case cmdLineTo:
				if current == nil {
					return nil, &DecodeError{Reason: "LINE_TO with no preceding MOVE_TO"}
				}
				dx, dy, err := nextDelta(commands, &i)
				if err != nil {
					return nil, err
				}
				x += dx
				y += dy
				*current = append(*current, Coord{X: float64(x) / Scale, Y: float64(y) / Scale})
			case cmdClosePath:
				if geomType != GeomPoint && current != nil && len(*current) > 0 {
					*current = append(*current, (*current)[0])
				}
			default:
				return nil, &DecodeError{Reason: "invalid command id"}
			}
		}
	}

	switch geomType {
	case GeomPoint:
		return assemblePoints(sequences), nil
	case GeomLine:
		return assembleLines(sequences), nil
	case GeomPolygon:
		return assemblePolygons(sequences), nil
	default:
		return GeometryCollection{}, nil
	}
}

// nextDelta consumes one zigzag-encoded (dx, dy) pair starting at *i,
// advancing *i past it.
func nextDelta(commands []int32, i *int) (dx, dy int32, err error) {
	if *i+2 > len(commands) {
		return 0, 0, &DecodeError{Reason: "truncated command stream: missing coordinate delta"}
	}
	dx = zigZagDecode(commands[*i])
	dy = zigZagDecode(commands[*i+1])
	*i += 2
	return dx, dy, nil
}

func assemblePoints(sequences [][]Coord) Geometry {
	var points []Coord
	for _, seq := range sequences {
		if len(seq) == 0 {
			continue
		}
		points = append(points, seq[0])
	}
	switch len(points) {
	case 0:
		return GeometryCollection{}
	case 1:
		return Point(points[0])
	default:
		return MultiPoint(points)
	}
}

func assembleLines(sequences [][]Coord) Geometry {
	var lines []LineString
	for _, seq := range sequences {
		if len(seq) < 2 {
			continue
		}
		lines = append(lines, LineString(seq))
	}
	switch len(lines) {
	case 0:
		return GeometryCollection{}
	case 1:
		return lines[0]
	default:
		return MultiLineString(lines)
	}
}

func assemblePolygons(sequences [][]Coord) Geometry {
	var ringGroups [][]LinearRing
	outerCCW := false
	first := true

	for _, seq := range sequences {
		// drop a hole with too few coordinates
		if len(ringGroups) > 0 && len(ringGroups[len(ringGroups)-1]) > 0 && len(seq) < 2 {
			continue
		}
		ring := LinearRing(seq)
		ccw := ring.isCCW()
		if first {
			first = false
			outerCCW = ccw
		}
		if ccw == outerCCW {
			ringGroups = append(ringGroups, nil)
		}
		last := len(ringGroups) - 1
		ringGroups[last] = append(ringGroups[last], ring)
	}

	var polygons []Polygon
	for _, rings := range ringGroups {
		if len(rings) == 0 {
			continue
		}
		polygons = append(polygons, Polygon{Exterior: rings[0], Holes: rings[1:]})
	}

	switch len(polygons) {
	case 0:
		return GeometryCollection{}
	case 1:
		return polygons[0]
	default:
		return MultiPolygon(polygons)
	}
}
