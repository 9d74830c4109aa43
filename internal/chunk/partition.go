package chunk

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/ximhear/songdo-meshbuilder/internal/mesh"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
	"github.com/ximhear/songdo-meshbuilder/internal/projection"
)

// DefaultChunkSize is the chunk edge length in meters used when the
// caller does not configure one.
const DefaultChunkSize = 500.0

// Partitioner assigns projected features to grid cells of Size meters,
// anchored at Origin.
type Partitioner struct {
	Origin orb.Point
	Size   float64
}

// NewPartitioner builds a Partitioner, defaulting size to
// DefaultChunkSize when non-positive.
func NewPartitioner(origin orb.Point, size float64) *Partitioner {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Partitioner{Origin: origin, Size: size}
}

// cellFor returns the grid cell containing local point (x, z).
func (p *Partitioner) cellFor(x, z float64) Key {
	return Key{
		CX: int32(math.Floor(x / p.Size)),
		CY: int32(math.Floor(z / p.Size)),
	}
}

// BoundsFor computes a cell's metric extent.
func (p *Partitioner) BoundsFor(key Key) Bounds {
	minX := float64(key.CX) * p.Size
	minZ := float64(key.CY) * p.Size
	return Bounds{
		CX: key.CX, CY: key.CY,
		MinX: minX, MinZ: minZ,
		MaxX: minX + p.Size, MaxZ: minZ + p.Size,
	}
}

// Assign places every building (by centroid) and every road (by every
// cell its polyline visits) into the chunks they belong to, per
// spec.md 4.5.1. A chunk is only present in the result once at least
// one feature has been assigned to it.
func (p *Partitioner) Assign(buildings []osm.BuildingFeature, roads []osm.RoadFeature) map[Key]*Data {
	chunks := make(map[Key]*Data)

	for _, b := range buildings {
		local := projection.ProjectRing(b.Ring, p.Origin)
		if len(local) == 0 {
			continue
		}

		var sumX, sumZ float64
		for _, pt := range local {
			sumX += pt.X
			sumZ += pt.Z
		}
		cx, cz := sumX/float64(len(local)), sumZ/float64(len(local))

		key := p.cellFor(cx, cz)
		data := p.chunkFor(chunks, key)

		entry := BuildingEntry{Feature: b}
		entry.Centroid.X, entry.Centroid.Z = cx, cz
		data.Buildings = append(data.Buildings, entry)
	}

	for _, r := range roads {
		local := projection.ProjectLine(r.Line, p.Origin)

		visited := make(map[Key]bool)
		for _, pt := range local {
			key := p.cellFor(pt.X, pt.Z)
			if visited[key] {
				continue
			}
			visited[key] = true

			data := p.chunkFor(chunks, key)
			data.Roads = append(data.Roads, RoadEntry{Feature: r, PointCount: len(local)})
		}
	}

	return chunks
}

func (p *Partitioner) chunkFor(chunks map[Key]*Data, key Key) *Data {
	data, ok := chunks[key]
	if !ok {
		data = &Data{Bounds: p.BoundsFor(key)}
		chunks[key] = data
	}
	return data
}

// GenerateMeshes builds the building and road meshes for a chunk,
// positionally corresponding to Buildings and Roads. Features that
// project to an empty mesh (e.g. a degenerate ring) are dropped from
// both the feature list and the mesh list together, keeping the two
// lists the same length as required by spec.md 3.
func (p *Partitioner) GenerateMeshes(data *Data) {
	var buildings []BuildingEntry
	var buildingMeshes []mesh.Mesh
	for _, b := range data.Buildings {
		m := mesh.BuildBuildingMesh(b.Feature.Ring, b.Feature.Height, p.Origin)
		if m.Empty() {
			continue
		}
		buildings = append(buildings, b)
		buildingMeshes = append(buildingMeshes, m)
	}
	data.Buildings = buildings
	data.BuildingMeshes = buildingMeshes

	var roads []RoadEntry
	var roadMeshes []mesh.Mesh
	for _, r := range data.Roads {
		m := mesh.BuildRoadMesh(r.Feature.Line, r.Feature.Width, p.Origin)
		if m.Empty() {
			continue
		}
		roads = append(roads, r)
		roadMeshes = append(roadMeshes, m)
	}
	data.Roads = roads
	data.RoadMeshes = roadMeshes
}
