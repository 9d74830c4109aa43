// Package chunk assigns projected features to a fixed-size metric grid
// and serializes each non-empty cell to the binary container format
// consumed by the renderer.
package chunk

import (
	"github.com/ximhear/songdo-meshbuilder/internal/mesh"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
)

// Key identifies one grid cell. Cells may have negative indices.
type Key struct {
	CX, CY int32
}

// Bounds is a grid cell's axis-aligned extent in local meters.
// Lower bounds are inclusive, upper bounds exclusive.
type Bounds struct {
	CX, CY     int32
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// BuildingEntry pairs a parsed building with the centroid the
// partitioner used to place it.
type BuildingEntry struct {
	Feature  osm.BuildingFeature
	Centroid struct{ X, Z float64 }
}

// RoadEntry pairs a parsed road with the vertex count of its projected
// polyline (the binary format's point_count field).
type RoadEntry struct {
	Feature    osm.RoadFeature
	PointCount int
}

// Data is everything assigned to one chunk: the source features, and
// -- once GenerateMeshes has run -- their meshes, positionally
// corresponding to Buildings/Roads.
type Data struct {
	Bounds         Bounds
	Buildings      []BuildingEntry
	BuildingMeshes []mesh.Mesh
	Roads          []RoadEntry
	RoadMeshes     []mesh.Mesh
}

// Empty reports whether a chunk has no features at all and therefore
// should not be materialized as a file.
func (d *Data) Empty() bool {
	return len(d.Buildings) == 0 && len(d.Roads) == 0
}
