package density

// hilbertRotate swaps/reflects (x, y) into the sub-quadrant orientation the
// Hilbert curve uses at the next recursion level.
func hilbertRotate(n uint64, x, y *uint64, rx, ry uint64) {
	if ry == 0 {
		if rx == 1 {
			*x = n - 1 - *x
			*y = n - 1 - *y
		}
		*x, *y = *y, *x
	}
}

// hilbertXY2D maps a 2D point on an n x n grid to its 1D distance along the
// Hilbert curve.
func hilbertXY2D(n, x, y uint64) uint64 {
	var d, rx, ry uint64
	for s := n / 2; s > 0; s /= 2 {
		if x&s != 0 {
			rx = 1
		} else {
			rx = 0
		}
		if y&s != 0 {
			ry = 1
		} else {
			ry = 0
		}
		d += s * s * ((3 * rx) ^ ry)
		hilbertRotate(s, &x, &y, rx, ry)
	}
	return d
}

// hilbertD2XY is the inverse of hilbertXY2D.
func hilbertD2XY(n, d uint64) (x, y uint64) {
	var rx, ry uint64
	t := d
	for s := uint64(1); s < n; s *= 2 {
		rx = 1 & (t / 2)
		ry = 1 & (t ^ rx)
		hilbertRotate(s, &x, &y, rx, ry)
		x += s * rx
		y += s * ry
		t /= 4
	}
	return
}

// hilbertGridBits is the curve order used for grouping keys: a 32-bit square
// grid, matching the world-pixel coordinate range Project produces at zoom
// 32.
const hilbertGridBits = 32

// EncodeHilbert reduces a world pixel coordinate to its position along a
// space-filling Hilbert curve, so that points close in (x, y) get close
// index values.
func EncodeHilbert(wx, wy uint64) uint64 {
	return hilbertXY2D(1<<hilbertGridBits, wx, wy)
}

// DecodeHilbert is the inverse of EncodeHilbert.
func DecodeHilbert(index uint64) (wx, wy uint64) {
	return hilbertD2XY(1<<hilbertGridBits, index)
}
