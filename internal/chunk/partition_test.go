package chunk

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
	"github.com/ximhear/songdo-meshbuilder/internal/projection"
)

var testOrigin = orb.Point{126.615, 37.355}

// square builds a closed ring offset (dx, dz) meters east/north of the
// origin with the given side length in meters.
func square(origin orb.Point, dx, dz, side float64) orb.Ring {
	dLon := side / projection.KLon
	dLat := side / projection.KLat
	baseLon := origin.Lon() + dx/projection.KLon
	baseLat := origin.Lat() + dz/projection.KLat
	return orb.Ring{
		{baseLon, baseLat},
		{baseLon + dLon, baseLat},
		{baseLon + dLon, baseLat + dLat},
		{baseLon, baseLat + dLat},
		{baseLon, baseLat},
	}
}

func TestAssign_BuildingGoesToSingleChunkByCentroid(t *testing.T) {
	p := NewPartitioner(testOrigin, 500)
	b := osm.BuildingFeature{ID: "b1", Ring: square(testOrigin, 10, 10, 10), Height: 5}

	chunks := p.Assign([]osm.BuildingFeature{b}, nil)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	for key, data := range chunks {
		if key != (Key{0, 0}) {
			t.Fatalf("expected chunk (0,0), got %v", key)
		}
		if len(data.Buildings) != 1 {
			t.Fatalf("expected 1 building in chunk, got %d", len(data.Buildings))
		}
	}
}

func TestAssign_BuildingStraddlingBoundaryGoesToLowerChunk(t *testing.T) {
	p := NewPartitioner(testOrigin, 20)
	// The footprint spans x=14..22, across the x=20 cell boundary, but
	// its vertex mean is x=18, so it is placed in cx=0 only.
	b := osm.BuildingFeature{ID: "b1", Ring: square(testOrigin, 14, 5, 8), Height: 5}

	chunks := p.Assign([]osm.BuildingFeature{b}, nil)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	for key := range chunks {
		if key.CX != 0 {
			t.Fatalf("expected cx=0, got %v", key)
		}
	}
}

func TestAssign_NegativeCoordinatesFloorCorrectly(t *testing.T) {
	p := NewPartitioner(testOrigin, 500)
	b := osm.BuildingFeature{ID: "b1", Ring: square(testOrigin, -10, -10, 10), Height: 5}

	chunks := p.Assign([]osm.BuildingFeature{b}, nil)
	for key := range chunks {
		if key != (Key{-1, -1}) {
			t.Fatalf("expected chunk (-1,-1) for negative local coords, got %v", key)
		}
	}
}

func TestAssign_RoadSpanningMultipleChunksVisitsEachOnce(t *testing.T) {
	p := NewPartitioner(testOrigin, 100)

	dLon0 := 0.0
	dLat0 := 0.0
	dLon1 := 250.0 / projection.KLon
	dLat1 := 0.0
	line := orb.LineString{
		{testOrigin.Lon() + dLon0, testOrigin.Lat() + dLat0},
		{testOrigin.Lon() + dLon1, testOrigin.Lat() + dLat1},
	}
	r := osm.RoadFeature{ID: "r1", Line: line, Width: 6}

	// A straight 2-point line only visits the chunks of its two
	// endpoints (x=0 and x=250), not the ones in between, since
	// assignment is per-vertex not per-cell-crossing.
	chunks := p.Assign(nil, []osm.RoadFeature{r})
	if _, ok := chunks[Key{0, 0}]; !ok {
		t.Fatalf("expected chunk (0,0) to contain the road, got %v", chunks)
	}
	if _, ok := chunks[Key{2, 0}]; !ok {
		t.Fatalf("expected chunk (2,0) to contain the road, got %v", chunks)
	}
	if _, ok := chunks[Key{1, 0}]; ok {
		t.Fatalf("expected chunk (1,0) between the endpoints not to be visited, got %v", chunks)
	}
	for key, data := range chunks {
		if len(data.Roads) != 1 {
			t.Fatalf("expected chunk %v to hold the road exactly once, got %d entries", key, len(data.Roads))
		}
	}
}

func TestAssign_ConservesAllFeatures(t *testing.T) {
	p := NewPartitioner(testOrigin, 50)
	var buildings []osm.BuildingFeature
	for i := 0; i < 20; i++ {
		buildings = append(buildings, osm.BuildingFeature{
			ID:     "b",
			Ring:   square(testOrigin, float64(i*40), float64(-i*30), 5),
			Height: 5,
		})
	}

	chunks := p.Assign(buildings, nil)
	total := 0
	for _, data := range chunks {
		total += len(data.Buildings)
	}
	if total != len(buildings) {
		t.Fatalf("expected conservation of %d buildings across chunks, got %d", len(buildings), total)
	}
}

func TestGenerateMeshes_DropsEmptyMeshesAndKeepsListsAligned(t *testing.T) {
	p := NewPartitioner(testOrigin, 500)
	good := osm.BuildingFeature{ID: "good", Ring: square(testOrigin, 10, 10, 10), Height: 5}
	degenerate := osm.BuildingFeature{ID: "bad", Ring: orb.Ring{testOrigin, testOrigin, testOrigin}, Height: 5}

	data := &Data{Buildings: []BuildingEntry{{Feature: good}, {Feature: degenerate}}}
	p.GenerateMeshes(data)

	if len(data.Buildings) != len(data.BuildingMeshes) {
		t.Fatalf("Buildings (%d) and BuildingMeshes (%d) must stay aligned", len(data.Buildings), len(data.BuildingMeshes))
	}
	if len(data.Buildings) != 1 {
		t.Fatalf("expected the degenerate building to be dropped, got %d survivors", len(data.Buildings))
	}
}

func TestBoundsFor_MatchesCellGrid(t *testing.T) {
	p := NewPartitioner(testOrigin, 250)
	b := p.BoundsFor(Key{CX: -2, CY: 3})
	if b.MinX != -500 || b.MaxX != -250 {
		t.Fatalf("unexpected x bounds: %+v", b)
	}
	if b.MinZ != 750 || b.MaxZ != 1000 {
		t.Fatalf("unexpected z bounds: %+v", b)
	}
}
