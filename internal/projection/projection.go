// Package projection converts geographic coordinates to the flat local
// metric frame the rest of the pipeline builds meshes and chunks in.
package projection

import (
	"math"

	"github.com/paulmach/orb"
)

// Songdo reference point used as the default local-tangent-plane origin
// throughout the pipeline. Matches the region this dataset was built for.
var DefaultOrigin = orb.Point{126.615, 37.355}

// referenceLatitude is the latitude the longitude scale factor is fixed
// at. It is deliberately not derived from the run's actual origin: a
// fixed scale keeps the (x, z) grid used for chunk partitioning
// invariant across the whole dataset, at the cost of a small and
// bounded distortion at the region's edges.
const referenceLatitude = 37.39

// KLat is meters per degree of latitude.
const KLat = 111000.0

// KLon is meters per degree of longitude at referenceLatitude, computed
// once at package init since math.Cos is not a Go constant expression.
var KLon float64

func init() {
	KLon = 111000.0 * math.Cos(referenceLatitude*math.Pi/180.0)
}

// Project converts a geographic point (lon, lat) to local meters (x, z)
// relative to origin. x grows east, z grows north.
func Project(p orb.Point, origin orb.Point) (x, z float64) {
	x = (p.Lon() - origin.Lon()) * KLon
	z = (p.Lat() - origin.Lat()) * KLat
	return x, z
}

// ProjectRing projects every vertex of a ring, dropping a trailing
// vertex that duplicates the first (closed-ring input).
func ProjectRing(ring orb.Ring, origin orb.Point) []Point2 {
	return projectPoints(orb.LineString(ring), origin, true)
}

// ProjectLine projects every vertex of a line string. No closing vertex
// is dropped: polylines are never implicitly closed.
func ProjectLine(line orb.LineString, origin orb.Point) []Point2 {
	return projectPoints(line, origin, false)
}

func projectPoints(points orb.LineString, origin orb.Point, dropClosingDup bool) []Point2 {
	n := len(points)
	if dropClosingDup && n > 1 && points[0] == points[n-1] {
		n--
	}
	out := make([]Point2, 0, n)
	for i := 0; i < n; i++ {
		x, z := Project(points[i], origin)
		out = append(out, Point2{X: x, Z: z})
	}
	return out
}

// Point2 is a projected local-metric (x, z) pair.
type Point2 struct {
	X, Z float64
}
