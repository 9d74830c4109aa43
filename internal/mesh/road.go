package mesh

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/ximhear/songdo-meshbuilder/internal/projection"
)

// roadY is the height at which road ribbons are emitted, just above the
// ground plane to avoid z-fighting with it at render time.
const roadY = 0.05

// BuildRoadMesh ribbonizes a polyline into a flat strip of the given
// width, centered on the line, lying at roadY. line is in geographic
// coordinates and must have at least 2 vertices; width must be > 0.
//
// Per-vertex tangents are averaged from the incoming and outgoing
// segment at interior vertices (an approximate miter, with no
// miter-length correction), and a vertex whose tangent degenerates
// below a minimum magnitude is skipped entirely -- the resulting mesh
// may therefore have fewer than 2*len(line) vertices.
func BuildRoadMesh(line orb.LineString, width float64, origin orb.Point) Mesh {
	local := projection.ProjectLine(line, origin)
	if len(local) < 2 {
		return Mesh{}
	}

	h := width / 2
	var m Mesh

	accumulated := 0.0
	emitted := 0

	for i, p := range local {
		var dx, dz float64
		switch {
		case i == 0:
			dx, dz = local[1].X-p.X, local[1].Z-p.Z
		case i == len(local)-1:
			dx, dz = p.X-local[i-1].X, p.Z-local[i-1].Z
		default:
			dx = local[i+1].X - local[i-1].X
			dz = local[i+1].Z - local[i-1].Z
		}

		if i > 0 {
			prev := local[i-1]
			accumulated += math.Hypot(p.X-prev.X, p.Z-prev.Z)
		}

		mag := math.Hypot(dx, dz)
		if mag < 0.001 {
			continue
		}
		dx, dz = dx/mag, dz/mag
		px, pz := -dz, dx // left perpendicular

		v := accumulated / 10

		m.Vertices = append(m.Vertices,
			newVertex(p.X+px*h, roadY, p.Z+pz*h, 0, 1, 0, 0, v),
			newVertex(p.X-px*h, roadY, p.Z-pz*h, 0, 1, 0, 1, v),
		)
		emitted++

		if emitted > 1 {
			b := uint32(emitted-2) * 2
			m.Indices = append(m.Indices,
				b+0, b+1, b+2,
				b+1, b+3, b+2,
			)
		}
	}

	return m
}
