// Command chunk-preview renders a region's buildings and roads as a
// single MVT tile, for eyeballing a build's partitioning without a 3D
// viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/paulmach/orb/maptile"

	"github.com/ximhear/songdo-meshbuilder/internal/config"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
	"github.com/ximhear/songdo-meshbuilder/internal/preview"
)

func main() {
	configPath := flag.String("config", ".env", "Path to config file")
	out := flag.String("out", "preview.mvt", "Output MVT file path")
	zoom := flag.Int("zoom", 16, "Tile zoom level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	buildingsFile, err := os.Open(cfg.Paths.BuildingsGeoJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open buildings input: %v\n", err)
		os.Exit(1)
	}
	defer buildingsFile.Close()

	roadsFile, err := os.Open(cfg.Paths.RoadsGeoJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open roads input: %v\n", err)
		os.Exit(1)
	}
	defer roadsFile.Close()

	buildings, _, err := osm.ParseBuildings(buildingsFile, "preview")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse buildings: %v\n", err)
		os.Exit(1)
	}
	roads, _, err := osm.ParseRoads(roadsFile, "preview")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse roads: %v\n", err)
		os.Exit(1)
	}

	data, err := preview.TileForChunk(buildings, roads, maptile.Zoom(*zoom))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render preview tile: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(data), *out)
}
