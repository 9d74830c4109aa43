// Package mesh builds the triangle meshes the pipeline serializes into
// chunk files: polygon triangulation, prismatic building extrusion, and
// road ribbonization.
package mesh

// Vertex is the atomic mesh record. It serializes to 32 bytes: three
// float32 position components, three float32 normal components, two
// float32 texcoord components, all little-endian.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Texcoord [2]float32
}

// Mesh is an ordered vertex buffer plus an ordered index buffer. Every
// three consecutive indices form one triangle; indices are 0-based into
// Vertices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Empty reports whether the mesh has no geometry at all.
func (m *Mesh) Empty() bool {
	return len(m.Vertices) == 0
}

func newVertex(x, y, z, nx, ny, nz, u, v float64) Vertex {
	return Vertex{
		Position: [3]float32{float32(x), float32(y), float32(z)},
		Normal:   [3]float32{float32(nx), float32(ny), float32(nz)},
		Texcoord: [2]float32{float32(u), float32(v)},
	}
}
