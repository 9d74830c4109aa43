package mesh

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/ximhear/songdo-meshbuilder/internal/projection"
)

// BuildBuildingMesh extrudes a closed ground-plane polygon into a
// prismatic mesh: a downward floor, an upward roof, and one quad per
// polygon edge for the walls. ring is in geographic coordinates and may
// be closed (first == last) or open; height must be > 0.
//
// Returns an empty Mesh if fewer than 3 unique vertices remain after
// projection and de-duplication of the closing vertex.
func BuildBuildingMesh(ring orb.Ring, height float64, origin orb.Point) Mesh {
	local := projection.ProjectRing(ring, origin)
	if len(local) < 3 {
		return Mesh{}
	}

	n := len(local)
	var m Mesh

	// 1. Floor ring, facing down, indices from the triangulator as-is.
	floorStart := uint32(len(m.Vertices))
	for _, p := range local {
		m.Vertices = append(m.Vertices, newVertex(p.X, 0, p.Z, 0, -1, 0, p.X/10, p.Z/10))
	}
	floorIndices := Triangulate(local)
	for _, idx := range floorIndices {
		m.Indices = append(m.Indices, floorStart+idx)
	}

	// 2. Roof ring, facing up: same triangulation, winding flipped by
	// swapping each triangle's second and third index.
	roofStart := uint32(len(m.Vertices))
	for _, p := range local {
		m.Vertices = append(m.Vertices, newVertex(p.X, height, p.Z, 0, 1, 0, p.X/10, p.Z/10))
	}
	for i := 0; i+2 < len(floorIndices); i += 3 {
		a, b, c := floorIndices[i], floorIndices[i+1], floorIndices[i+2]
		m.Indices = append(m.Indices, roofStart+a, roofStart+c, roofStart+b)
	}

	// 3. Walls, one quad per polygon edge.
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		p0, p1 := local[i], local[j]

		dx, dz := p1.X-p0.X, p1.Z-p0.Z
		length := math.Hypot(dx, dz)
		if length < 0.01 {
			continue
		}

		nx, nz := dz/length, -dx/length
		u1 := length / 3
		v1 := height / 3

		wallStart := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices,
			newVertex(p0.X, 0, p0.Z, nx, 0, nz, 0, 0),
			newVertex(p1.X, 0, p1.Z, nx, 0, nz, u1, 0),
			newVertex(p1.X, height, p1.Z, nx, 0, nz, u1, v1),
			newVertex(p0.X, height, p0.Z, nx, 0, nz, 0, v1),
		)
		m.Indices = append(m.Indices,
			wallStart+0, wallStart+1, wallStart+2,
			wallStart+0, wallStart+2, wallStart+3,
		)
	}

	return m
}
