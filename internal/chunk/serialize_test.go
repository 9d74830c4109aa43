package chunk

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
)

func sampleData(t *testing.T) *Data {
	t.Helper()
	p := NewPartitioner(testOrigin, 500)

	lanes := 2
	data := &Data{
		Buildings: []BuildingEntry{{Feature: osm.BuildingFeature{
			ID: "b1", Ring: square(testOrigin, 10, 10, 10), Height: 5, Classification: "residential",
		}}},
		Roads: []RoadEntry{{Feature: osm.RoadFeature{
			ID: "r1", Line: orb.LineString{testOrigin, {testOrigin.Lon() + 0.001, testOrigin.Lat()}},
			Width: 4, Classification: "residential", Lanes: &lanes,
		}}},
	}
	p.GenerateMeshes(data)
	return data
}

func TestWriteRead_RoundTrip(t *testing.T) {
	data := sampleData(t)
	path := filepath.Join(t.TempDir(), "chunk_0_0.bin")

	if err := Write(path, Key{0, 0}, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	h, buildings, roads, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if h.Version != 1 {
		t.Fatalf("expected version 1, got %d", h.Version)
	}
	if h.CX != 0 || h.CY != 0 {
		t.Fatalf("expected cx=cy=0, got (%d,%d)", h.CX, h.CY)
	}
	if int(h.BuildingCount) != len(data.Buildings) || int(h.RoadCount) != len(data.Roads) {
		t.Fatalf("count mismatch: header has (%d,%d), data has (%d,%d)",
			h.BuildingCount, h.RoadCount, len(data.Buildings), len(data.Roads))
	}
	if h.BuildingSectionOffset < headerSize {
		t.Fatalf("building_section_offset %d must be >= header size %d", h.BuildingSectionOffset, headerSize)
	}
	if h.RoadSectionOffset <= h.BuildingSectionOffset {
		t.Fatalf("road_section_offset %d must come after building_section_offset %d", h.RoadSectionOffset, h.BuildingSectionOffset)
	}

	if len(buildings) != 1 || len(roads) != 1 {
		t.Fatalf("expected 1 building mesh and 1 road mesh, got %d/%d", len(buildings), len(roads))
	}
	if !reflect.DeepEqual(buildings[0], data.BuildingMeshes[0]) {
		t.Fatalf("building mesh did not round-trip exactly:\nwant %+v\ngot  %+v", data.BuildingMeshes[0], buildings[0])
	}
	if !reflect.DeepEqual(roads[0], data.RoadMeshes[0]) {
		t.Fatalf("road mesh did not round-trip exactly:\nwant %+v\ngot  %+v", data.RoadMeshes[0], roads[0])
	}
}

func TestWrite_HeaderMagicAndVersion(t *testing.T) {
	data := sampleData(t)
	path := filepath.Join(t.TempDir(), "chunk.bin")
	if err := Write(path, Key{1, -2}, data); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chunk file failed: %v", err)
	}
	if string(raw[0:4]) != "SDC1" {
		t.Fatalf("expected magic \"SDC1\", got %q", raw[0:4])
	}

	h, _, _, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if h.Version != 1 {
		t.Fatalf("expected version 1, got %d", h.Version)
	}
	if h.CX != 1 || h.CY != -2 {
		t.Fatalf("expected negative cy to round-trip, got (%d,%d)", h.CX, h.CY)
	}
}

func TestWrite_EmptyChunkStillProducesValidHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := Write(path, Key{0, 0}, &Data{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	h, buildings, roads, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if h.BuildingCount != 0 || h.RoadCount != 0 || len(buildings) != 0 || len(roads) != 0 {
		t.Fatalf("expected an empty chunk to decode with zero counts, got header=%+v", h)
	}
}

func TestBuildIndex_SkipsEmptyChunksAndUsesConventionalFileNames(t *testing.T) {
	p := NewPartitioner(testOrigin, 500)
	chunks := p.Assign([]osm.BuildingFeature{
		{ID: "b1", Ring: square(testOrigin, 10, 10, 10), Height: 5},
	}, nil)
	chunks[Key{9, 9}] = &Data{Bounds: p.BoundsFor(Key{9, 9})} // present but empty

	idx := BuildIndex(testOrigin, 500, chunks, ChunkFileName)
	if len(idx.Chunks) != 1 {
		t.Fatalf("expected empty chunk to be excluded from the index, got %d entries", len(idx.Chunks))
	}
	entry := idx.Chunks[0]
	if entry.ID != "0_0" || entry.File != filepath.Join("chunks", "chunk_0_0.bin") {
		t.Fatalf("unexpected index entry: %+v", entry)
	}
	if entry.BuildingCount != 1 {
		t.Fatalf("expected building_count=1, got %d", entry.BuildingCount)
	}
}
