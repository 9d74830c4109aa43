package osm

import (
	"strings"
	"testing"
)

const buildingsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"height": 5, "building_type": "residential"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[126.6150, 37.3550], [126.6152, 37.3550], [126.6152, 37.3552], [126.6150, 37.3552], [126.6150, 37.3550]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"height": -1, "building_type": "residential"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0, 0], [0.001, 0], [0.001, 0.001], [0, 0], [0, 0]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"height": 10, "building_type": "commercial"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[0, 0], [1, 1]]
      }
    }
  ]
}`

const roadsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"highway_type": "residential", "width": 6, "lanes": 2},
      "geometry": {
        "type": "LineString",
        "coordinates": [[126.6150, 37.3550], [126.6160, 37.3550]]
      }
    },
    {
      "type": "Feature",
      "properties": {"highway_type": "footway", "width": -2},
      "geometry": {
        "type": "LineString",
        "coordinates": [[0, 0], [1, 1]]
      }
    },
    {
      "type": "Feature",
      "properties": {"highway_type": "residential", "width": 4},
      "geometry": {
        "type": "LineString",
        "coordinates": [[0, 0]]
      }
    }
  ]
}`

func TestParseBuildings_SkipsMalformedFeatures(t *testing.T) {
	buildings, skips, err := ParseBuildings(strings.NewReader(buildingsGeoJSON), "test-region")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buildings) != 1 {
		t.Fatalf("expected 1 valid building, got %d", len(buildings))
	}
	if len(skips) != 2 {
		t.Fatalf("expected 2 skip reasons, got %d: %v", len(skips), skips)
	}
	if buildings[0].Height != 5 {
		t.Fatalf("expected height 5, got %v", buildings[0].Height)
	}
	if buildings[0].ID == "" {
		t.Fatal("expected a derived feature ID")
	}
}

func TestParseRoads_SkipsMalformedFeatures(t *testing.T) {
	roads, skips, err := ParseRoads(strings.NewReader(roadsGeoJSON), "test-region")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roads) != 1 {
		t.Fatalf("expected 1 valid road, got %d", len(roads))
	}
	if len(skips) != 2 {
		t.Fatalf("expected 2 skip reasons, got %d: %v", len(skips), skips)
	}
	if roads[0].Lanes == nil || *roads[0].Lanes != 2 {
		t.Fatalf("expected lanes=2, got %v", roads[0].Lanes)
	}
}

func TestFeatureID_DeterministicAcrossRuns(t *testing.T) {
	b1, _, _ := ParseBuildings(strings.NewReader(buildingsGeoJSON), "test-region")
	b2, _, _ := ParseBuildings(strings.NewReader(buildingsGeoJSON), "test-region")
	if b1[0].ID != b2[0].ID {
		t.Fatalf("expected deterministic ID across runs, got %q vs %q", b1[0].ID, b2[0].ID)
	}
}

func TestRoadTypeCode(t *testing.T) {
	cases := map[string]RoadType{
		"motorway":    RoadTypeMotorway,
		"trunk":       RoadTypeMotorway,
		"primary":     RoadTypePrimary,
		"secondary":   RoadTypeSecondary,
		"tertiary":    RoadTypeSecondary,
		"residential": RoadTypeResidential,
		"service":     RoadTypeResidential,
		"footway":     RoadTypePath,
		"cycleway":    RoadTypePath,
		"path":        RoadTypePath,
		"unknown-tag": RoadTypeResidential,
	}
	for classification, want := range cases {
		if got := RoadTypeCode(classification); got != want {
			t.Errorf("RoadTypeCode(%q) = %d, want %d", classification, got, want)
		}
	}
}
