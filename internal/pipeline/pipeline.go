// Package pipeline orchestrates a full build: parse GeoJSON inputs,
// partition them into chunks, generate meshes, serialize the binary
// chunk files and index manifest, and optionally record the run in the
// ledger and upload the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ximhear/songdo-meshbuilder/internal/chunk"
	"github.com/ximhear/songdo-meshbuilder/internal/config"
	"github.com/ximhear/songdo-meshbuilder/internal/ledger"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
	"github.com/ximhear/songdo-meshbuilder/internal/upload"
)

// Pipeline wires together the components a build run needs. Ledger
// and Uploader are optional; a nil value skips that step.
type Pipeline struct {
	Config   *config.Config
	Ledger   *ledger.Ledger
	Uploader *upload.Client
}

// New builds a Pipeline from configuration. db and uploader may be nil.
func New(cfg *config.Config, db *ledger.Ledger, uploader *upload.Client) *Pipeline {
	return &Pipeline{Config: cfg, Ledger: db, Uploader: uploader}
}

// Summary reports what a run produced.
type Summary struct {
	Region        string
	ChunkCount    int
	BuildingCount int
	RoadCount     int
	TotalSize     int64
	SkippedInputs []string
}

// Run executes the full pipeline for one region: parse, partition,
// mesh, serialize, index, and (if configured) record and upload.
func (p *Pipeline) Run(ctx context.Context, region string) (*Summary, error) {
	logger := slog.With("region", region)
	logger.Info("starting mesh build")

	var runID string
	if p.Ledger != nil {
		id, err := p.Ledger.StartRun(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("failed to start ledger run: %w", err)
		}
		runID = id
	}

	summary, err := p.build(ctx, region, logger)
	if err != nil {
		if p.Ledger != nil && runID != "" {
			if ferr := p.Ledger.FailRun(ctx, runID, err.Error()); ferr != nil {
				logger.Error("failed to record run failure", "error", ferr)
			}
		}
		return nil, err
	}

	if p.Ledger != nil && runID != "" {
		if cerr := p.Ledger.CompleteRun(ctx, runID, summary.ChunkCount, summary.BuildingCount, summary.RoadCount, summary.TotalSize); cerr != nil {
			logger.Error("failed to record run completion", "error", cerr)
		}
	}

	logger.Info("mesh build complete",
		"chunks", summary.ChunkCount, "buildings", summary.BuildingCount,
		"roads", summary.RoadCount, "bytes", summary.TotalSize)

	return summary, nil
}

func (p *Pipeline) build(ctx context.Context, region string, logger *slog.Logger) (*Summary, error) {
	buildingsFile, err := os.Open(p.Config.Paths.BuildingsGeoJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to open buildings input: %w", err)
	}
	defer buildingsFile.Close()

	roadsFile, err := os.Open(p.Config.Paths.RoadsGeoJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to open roads input: %w", err)
	}
	defer roadsFile.Close()

	buildings, buildingSkips, err := osm.ParseBuildings(buildingsFile, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse buildings: %w", err)
	}
	roads, roadSkips, err := osm.ParseRoads(roadsFile, region)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roads: %w", err)
	}
	logger.Info("parsed input", "buildings", len(buildings), "roads", len(roads),
		"building_skips", len(buildingSkips), "road_skips", len(roadSkips))

	partitioner := chunk.NewPartitioner(p.Config.Origin, p.Config.ChunkSize)
	chunks := partitioner.Assign(buildings, roads)

	chunksDir := filepath.Join(p.Config.Paths.OutputDir, "chunks")
	if err := os.MkdirAll(chunksDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		materialized  int
		buildingCount int
		roadCount     int
		totalSize     int64
	)

	for key, data := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		partitioner.GenerateMeshes(data)
		if data.Empty() {
			continue
		}

		path := filepath.Join(p.Config.Paths.OutputDir, chunk.ChunkFileName(key))
		if err := chunk.Write(path, key, data); err != nil {
			return nil, fmt.Errorf("failed to write chunk %d_%d: %w", key.CX, key.CY, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat chunk file %s: %w", path, err)
		}

		materialized++
		buildingCount += len(data.Buildings)
		roadCount += len(data.Roads)
		totalSize += info.Size()
	}

	idx := chunk.BuildIndex(p.Config.Origin, p.Config.ChunkSize, chunks, chunk.ChunkFileName)
	indexPath := filepath.Join(p.Config.Paths.OutputDir, "index.json")
	if err := chunk.WriteIndex(indexPath, idx); err != nil {
		return nil, fmt.Errorf("failed to write index manifest: %w", err)
	}

	if p.Uploader != nil {
		if _, err := p.Uploader.UploadDirectory(ctx, p.Config.Paths.OutputDir); err != nil {
			return nil, fmt.Errorf("failed to upload output directory: %w", err)
		}
	}

	return &Summary{
		Region:        region,
		ChunkCount:    materialized,
		BuildingCount: buildingCount,
		RoadCount:     roadCount,
		TotalSize:     totalSize,
		SkippedInputs: append(buildingSkips, roadSkips...),
	}, nil
}
