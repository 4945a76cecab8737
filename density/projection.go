// Package density supplies the feature-grouping keys the tile codec's
// Feature.Group field is meant to carry (Section 3, Non-goals: the codec
// itself never assigns or interprets group values — this package is one
// concrete "upstream density control" collaborator). It projects geographic
// coordinates to tile pixel space and reduces them to a single spatially
// coherent sort key via a Hilbert curve, so that a caller sorting features by
// GroupKey and thinning runs of consecutive same-key features gets features
// that are physically close in the tile grouped together — the same
// motivation behind the teacher's quadkey/Hilbert helpers, generalized here
// from a CLI-only helper into a reusable grouping key.
package density

import "math"

// Projection converts between geographic coordinates and integer world
// pixel coordinates at a given zoom level. Adapted from the teacher's
// projection.go EPSG4326/EPSG3857 pair; the interface and clamping behavior
// are unchanged, only the doc comments and receiver style were normalized.
type Projection interface {
	Project(x, y float64, zoom int) (wx, wy int64)
	UnProject(wx, wy int64, zoom int) (x, y float64)
}

// EPSG4326 is the WGS84 geographic (lon/lat) projection.
type EPSG4326 struct{}

// EPSG3857 is the Web Mercator projection.
type EPSG3857 struct{}

// Project maps (lon, lat) to world pixel coordinates at zoom, clamping
// out-of-range or non-finite input the way tile servers commonly tolerate
// bad upstream data rather than reject it outright.
func (EPSG4326) Project(lon, lat float64, zoom int) (x, y int64) {
	badLon := false
	if math.IsInf(lon, 0) || math.IsNaN(lon) {
		lon = 720
		badLon = true
	}
	if math.IsInf(lat, 0) || math.IsNaN(lat) {
		lat = 89.9
	}
	if lat < -89.9 {
		lat = -89.9
	}
	if lat > 89.9 {
		lat = 89.9
	}
	if lon < -360 && !badLon {
		lon = -360
	}
	if lon > 360 && !badLon {
		lon = 360
	}

	latRad := lat * math.Pi / 180
	n := int64(1) << uint(zoom)

	x = int64(float64(n) * ((lon + 180.0) / 360.0))
	y = int64(float64(n) * (1.0 - (math.Log(math.Tan(latRad)+1.0/math.Cos(latRad)) / math.Pi)) / 2.0)
	return
}

// UnProject is the inverse of Project.
func (EPSG4326) UnProject(x, y int64, zoom int) (lon, lat float64) {
	n := int64(1) << uint(zoom)
	lon = float64(360.0*x)/float64(n) - 180.0
	lat = math.Atan(math.Sinh(math.Pi*(1-2.0*float64(y)/float64(n)))) * 180.0 / math.Pi
	return
}

// Project maps Web Mercator meters to world pixel coordinates at zoom.
func (EPSG3857) Project(mx, my float64, zoom int) (wx, wy int64) {
	if math.IsInf(mx, 0) || math.IsNaN(mx) {
		mx = 40000000.0
	}
	if math.IsInf(my, 0) || math.IsNaN(my) {
		my = 40000000.0
	}

	wx = int64(mx*(1<<31)/6378137.0/math.Pi + (1 << 31))
	wy = int64(((1 << 32) - 1) - (my*(1<<31)/6378137.0/math.Pi + (1 << 31)))

	if zoom != 0 {
		wx >>= uint(32 - zoom)
		wy >>= uint(32 - zoom)
	}
	return
}

// UnProject is the inverse of Project.
func (EPSG3857) UnProject(wx, wy int64, zoom int) (mx, my float64) {
	if zoom != 0 {
		wx <<= uint(32 - zoom)
		wy <<= uint(32 - zoom)
	}
	mx = float64(wx-(1<<31)) * math.Pi * 6378137.0 / (1 << 31)
	my = float64((1<<32)-1-wy-(1<<31)) * math.Pi * 6378137.0 / (1 << 31)
	return
}
