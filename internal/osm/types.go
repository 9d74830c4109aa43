// Package osm parses the GeoJSON feature collections the pipeline
// consumes at its input boundary and flattens their heterogeneous
// property bags into the fixed structs the rest of the pipeline works
// with. OSM tag-to-attribute heuristics (height/width defaults, highway
// classification) are a collaborator's responsibility and are not
// performed here -- callers must hand in already-resolved values.
package osm

import "github.com/paulmach/orb"

// BuildingFeature is a closed polygon footprint with a positive
// extrusion height, as described in spec.md 3.
type BuildingFeature struct {
	ID             string
	Ring           orb.Ring
	Height         float64
	Classification string
}

// RoadFeature is an open polyline centerline with a positive width, as
// described in spec.md 3.
type RoadFeature struct {
	ID             string
	Line           orb.LineString
	Width          float64
	Classification string
	Lanes          *int
}

// RoadType is the small integer code the binary chunk format stores for
// a road's classification (spec.md 4.5.2).
type RoadType uint8

const (
	RoadTypeMotorway    RoadType = 0
	RoadTypePrimary     RoadType = 1
	RoadTypeSecondary   RoadType = 2
	RoadTypeResidential RoadType = 3
	RoadTypePath        RoadType = 4
)

var classificationToRoadType = map[string]RoadType{
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
}

// RoadTypeCode maps a classification string to its binary road_type
// code. Unrecognized classifications map to RoadTypeResidential (3),
// per spec.md's road_type table.
func RoadTypeCode(classification string) RoadType {
	if t, ok := classificationToRoadType[classification]; ok {
		return t
	}
	return RoadTypeResidential
}
