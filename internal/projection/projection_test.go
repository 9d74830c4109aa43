package projection

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestProject_Origin(t *testing.T) {
	origin := orb.Point{126.615, 37.355}
	x, z := Project(origin, origin)
	if x != 0 || z != 0 {
		t.Fatalf("expected (0,0) at origin, got (%v,%v)", x, z)
	}
}

func TestProject_KnownOffsets(t *testing.T) {
	origin := orb.Point{126.615, 37.355}

	// One degree of latitude north should be exactly KLat meters.
	p := orb.Point{126.615, 37.355 + 1.0}
	_, z := Project(p, origin)
	if math.Abs(z-KLat) > 1e-6 {
		t.Fatalf("expected z=%v, got %v", KLat, z)
	}

	// One degree of longitude east should be exactly KLon meters,
	// regardless of the actual latitude (fixed-scale projection).
	p2 := orb.Point{126.615 + 1.0, 37.355}
	x, _ := Project(p2, origin)
	if math.Abs(x-KLon) > 1e-6 {
		t.Fatalf("expected x=%v, got %v", KLon, x)
	}
}

func TestProject_ScaleIsOriginIndependent(t *testing.T) {
	// The longitude scale factor must not vary with the point's own
	// latitude -- it is a fixed constant by design (spec.md 4.1).
	originA := orb.Point{0, 0}
	originB := orb.Point{0, 50}

	xA, _ := Project(orb.Point{1, 0}, originA)
	xB, _ := Project(orb.Point{1, 50}, originB)

	if math.Abs(xA-xB) > 1e-9 {
		t.Fatalf("longitude scale should be origin-latitude independent, got %v vs %v", xA, xB)
	}
}

func TestProjectRing_DropsClosingDuplicate(t *testing.T) {
	origin := orb.Point{0, 0}
	ring := orb.Ring{
		{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0},
	}
	pts := ProjectRing(ring, origin)
	if len(pts) != 4 {
		t.Fatalf("expected closing vertex dropped, got %d points", len(pts))
	}
}

func TestProjectRing_OpenRingKeepsAllPoints(t *testing.T) {
	origin := orb.Point{0, 0}
	ring := orb.Ring{
		{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001},
	}
	pts := ProjectRing(ring, origin)
	if len(pts) != 4 {
		t.Fatalf("expected 4 points, got %d", len(pts))
	}
}

func TestProjectLine_NeverDropsPoints(t *testing.T) {
	origin := orb.Point{0, 0}
	line := orb.LineString{{0, 0}, {0.001, 0}, {0, 0}}
	pts := ProjectLine(line, origin)
	if len(pts) != 3 {
		t.Fatalf("expected all 3 points kept for a polyline, got %d", len(pts))
	}
}
