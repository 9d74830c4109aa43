package osm

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// idNamespace is an arbitrary fixed namespace for the deterministic
// per-feature UUIDs this package derives when an input feature carries
// no identifier of its own. Using a fixed namespace (rather than a
// random one) is what makes the derived ID reproducible across runs.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ParseBuildings decodes a buildings GeoJSON FeatureCollection
// (spec.md 6). Malformed features -- wrong geometry type, a ring with
// fewer than 3 unique vertices, a non-positive height -- are skipped
// and reported as skip reasons rather than failing the whole parse.
func ParseBuildings(r io.Reader, region string) ([]BuildingFeature, []string, error) {
	fc, err := decodeFeatureCollection(r)
	if err != nil {
		return nil, nil, err
	}

	var out []BuildingFeature
	var skips []string

	for i, f := range fc.Features {
		poly, ok := f.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 {
			skips = append(skips, fmt.Sprintf("feature %d: geometry is not a Polygon", i))
			continue
		}

		ring := poly[0] // inner rings are ignored per spec.md 6
		if uniqueRingVertexCount(ring) < 3 {
			skips = append(skips, fmt.Sprintf("feature %d: ring has fewer than 3 unique vertices", i))
			continue
		}

		height := f.Properties.MustFloat64("height", 0)
		if height <= 0 {
			skips = append(skips, fmt.Sprintf("feature %d: non-positive height %v", i, height))
			continue
		}

		id := featureID(f, region, ring[0])
		classification := f.Properties.MustString("building_type", "")

		out = append(out, BuildingFeature{
			ID:             id,
			Ring:           ring,
			Height:         height,
			Classification: classification,
		})
	}

	return out, skips, nil
}

// ParseRoads decodes a roads GeoJSON FeatureCollection (spec.md 6).
// Malformed features -- wrong geometry type, fewer than 2 vertices, a
// non-positive width -- are skipped and reported as skip reasons.
func ParseRoads(r io.Reader, region string) ([]RoadFeature, []string, error) {
	fc, err := decodeFeatureCollection(r)
	if err != nil {
		return nil, nil, err
	}

	var out []RoadFeature
	var skips []string

	for i, f := range fc.Features {
		line, ok := f.Geometry.(orb.LineString)
		if !ok {
			skips = append(skips, fmt.Sprintf("feature %d: geometry is not a LineString", i))
			continue
		}
		if len(line) < 2 {
			skips = append(skips, fmt.Sprintf("feature %d: polyline has fewer than 2 vertices", i))
			continue
		}

		width := f.Properties.MustFloat64("width", 0)
		if width <= 0 {
			skips = append(skips, fmt.Sprintf("feature %d: non-positive width %v", i, width))
			continue
		}

		id := featureID(f, region, line[0])
		classification := f.Properties.MustString("highway_type", "")

		var lanes *int
		if n := f.Properties.MustInt("lanes", -1); n >= 0 {
			lanes = &n
		}

		out = append(out, RoadFeature{
			ID:             id,
			Line:           line,
			Width:          width,
			Classification: classification,
			Lanes:          lanes,
		})
	}

	return out, skips, nil
}

func decodeFeatureCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GeoJSON: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}
	return fc, nil
}

// featureID resolves a feature's identifier: the GeoJSON feature ID if
// present, then properties.id, then a deterministic UUID derived from
// the region and the feature's first vertex -- the same scheme
// the teacher's KML-to-GeoJSON converter uses for roads, so that
// re-running the pipeline over unchanged input yields the same IDs.
func featureID(f *geojson.Feature, region string, firstVertex orb.Point) string {
	if f.ID != nil {
		if s, ok := f.ID.(string); ok && s != "" {
			return s
		}
	}
	if id, ok := f.Properties["id"].(string); ok && id != "" {
		return id
	}

	name := fmt.Sprintf("%s:%.6f,%.6f", region, firstVertex.Lon(), firstVertex.Lat())
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// uniqueRingVertexCount counts vertices in a ring, ignoring a trailing
// vertex that duplicates the first.
func uniqueRingVertexCount(ring orb.Ring) int {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	return n
}
