package chunk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// IntegrityReport is the result of verifying a built output directory
// against its own index manifest.
type IntegrityReport struct {
	Dir        string
	OK         bool
	ChunkCount int
	Problems   []string
}

// Verify checks that every chunk listed in dir's index.json exists,
// decodes with the correct magic/version, and matches the index's
// recorded building/road counts.
func Verify(dir string) (*IntegrityReport, error) {
	report := &IntegrityReport{Dir: dir, OK: true}

	indexPath := filepath.Join(dir, "index.json")
	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read index manifest %s: %w", indexPath, err)
	}

	var idx Index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index manifest %s: %w", indexPath, err)
	}

	report.ChunkCount = len(idx.Chunks)

	for _, entry := range idx.Chunks {
		path := filepath.Join(dir, entry.File)
		h, buildings, roads, err := Read(path)
		if err != nil {
			report.OK = false
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", entry.File, err))
			continue
		}
		if h.Version != 1 {
			report.OK = false
			report.Problems = append(report.Problems, fmt.Sprintf("%s: unexpected version %d", entry.File, h.Version))
		}
		if h.CX != entry.X || h.CY != entry.Y {
			report.OK = false
			report.Problems = append(report.Problems, fmt.Sprintf("%s: header cell (%d,%d) does not match index (%d,%d)",
				entry.File, h.CX, h.CY, entry.X, entry.Y))
		}
		if len(buildings) != entry.BuildingCount {
			report.OK = false
			report.Problems = append(report.Problems, fmt.Sprintf("%s: building_count mismatch, index=%d file=%d",
				entry.File, entry.BuildingCount, len(buildings)))
		}
		if len(roads) != entry.RoadCount {
			report.OK = false
			report.Problems = append(report.Problems, fmt.Sprintf("%s: road_count mismatch, index=%d file=%d",
				entry.File, entry.RoadCount, len(roads)))
		}
	}

	return report, nil
}
