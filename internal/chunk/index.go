package chunk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
)

// IndexVersion is the manifest format version string written to
// index.json's "version" field.
const IndexVersion = "1"

// Index is the JSON document written alongside the chunk directory,
// per spec.md 4.5.3.
type Index struct {
	Version         string       `json:"version"`
	Origin          IndexOrigin  `json:"origin"`
	ChunkSizeMeters float64      `json:"chunk_size_meters"`
	Chunks          []IndexChunk `json:"chunks"`
}

type IndexOrigin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type IndexChunk struct {
	ID            string      `json:"id"`
	File          string      `json:"file"`
	X             int32       `json:"x"`
	Y             int32       `json:"y"`
	Bounds        IndexBounds `json:"bounds"`
	BuildingCount int         `json:"building_count"`
	RoadCount     int         `json:"road_count"`
}

type IndexBounds struct {
	MinX float64 `json:"min_x"`
	MinZ float64 `json:"min_z"`
	MaxX float64 `json:"max_x"`
	MaxZ float64 `json:"max_z"`
}

// BuildIndex assembles the manifest for a set of materialized chunks.
// chunkFileName must match the name Write used for that chunk's file.
func BuildIndex(origin orb.Point, chunkSize float64, chunks map[Key]*Data, chunkFileName func(Key) string) Index {
	idx := Index{
		Version: IndexVersion,
		Origin: IndexOrigin{
			Latitude:  origin.Lat(),
			Longitude: origin.Lon(),
		},
		ChunkSizeMeters: chunkSize,
	}

	for key, data := range chunks {
		if data.Empty() {
			continue
		}
		idx.Chunks = append(idx.Chunks, IndexChunk{
			ID:   fmt.Sprintf("%d_%d", key.CX, key.CY),
			File: chunkFileName(key),
			X:    key.CX,
			Y:    key.CY,
			Bounds: IndexBounds{
				MinX: data.Bounds.MinX,
				MinZ: data.Bounds.MinZ,
				MaxX: data.Bounds.MaxX,
				MaxZ: data.Bounds.MaxZ,
			},
			BuildingCount: len(data.Buildings),
			RoadCount:     len(data.Roads),
		})
	}

	return idx
}

// ChunkFileName is the conventional on-disk name for a chunk, relative
// to the output directory's chunks/ subdirectory.
func ChunkFileName(key Key) string {
	return filepath.Join("chunks", fmt.Sprintf("chunk_%d_%d.bin", key.CX, key.CY))
}

// WriteIndex marshals idx as pretty-printed JSON to path.
func WriteIndex(path string, idx Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chunk index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write chunk index %s: %w", path, err)
	}
	return nil
}
