// Package preview renders a chunk's building footprints and road
// centerlines as a single Mapbox Vector Tile, for eyeballing
// partitioning decisions without loading the binary chunk format into
// a 3D viewer.
package preview

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"

	"github.com/ximhear/songdo-meshbuilder/internal/osm"
)

// TileForChunk builds a gzip-compressed MVT tile at the given zoom
// covering a chunk's buildings and roads. Two layers are emitted:
// "buildings" (polygons, tagged with height) and "roads" (lines,
// tagged with classification).
func TileForChunk(buildings []osm.BuildingFeature, roads []osm.RoadFeature, zoom maptile.Zoom) ([]byte, error) {
	var bound orb.Bound
	first := true
	for _, b := range buildings {
		bound = growBound(bound, b.Ring.Bound(), &first)
	}
	for _, r := range roads {
		bound = growBound(bound, r.Line.Bound(), &first)
	}
	if first {
		return nil, fmt.Errorf("no features to render")
	}

	tile := maptile.At(bound.Center(), zoom)
	tileBound := tile.Bound()

	buildingFC := geojson.NewFeatureCollection()
	for _, b := range buildings {
		f := geojson.NewFeature(orb.Polygon{b.Ring})
		f.Properties["id"] = b.ID
		f.Properties["height"] = b.Height
		f.Properties["building_type"] = b.Classification
		buildingFC.Append(f)
	}

	roadFC := geojson.NewFeatureCollection()
	for _, r := range roads {
		f := geojson.NewFeature(r.Line)
		f.Properties["id"] = r.ID
		f.Properties["width"] = r.Width
		f.Properties["highway_type"] = r.Classification
		f.Properties["road_type"] = int(osm.RoadTypeCode(r.Classification))
		roadFC.Append(f)
	}

	buildingLayer := mvt.NewLayer("buildings", buildingFC)
	roadLayer := mvt.NewLayer("roads", roadFC)

	layers := mvt.Layers{buildingLayer, roadLayer}
	for _, layer := range layers {
		layer.Clip(tileBound)
		layer.ProjectToTile(tile)
		layer.RemoveEmpty(0.5, 0.5)
	}

	data, err := mvt.MarshalGzipped(layers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preview tile: %w", err)
	}
	return data, nil
}

func growBound(acc orb.Bound, b orb.Bound, first *bool) orb.Bound {
	if *first {
		*first = false
		return b
	}
	return acc.Union(b)
}
