package mesh

import "github.com/ximhear/songdo-meshbuilder/internal/projection"

// Triangulate ear-clips a simple polygon given as an ordered, open ring
// (points[0] != points[len(points)-1]) into a list of triangle indices
// referencing the original input order. Returns nil if fewer than 3
// points are given.
//
// The working copy is canonicalized to counter-clockwise orientation
// before clipping (ears are convex vertices under that orientation);
// emitted indices always refer to the caller's original ordering via a
// parallel index array, so the reversal is invisible to callers.
//
// If no ear is found on a full pass -- a degenerate or self-intersecting
// polygon -- the remainder falls back to a fan triangulation from the
// first remaining vertex, which always terminates.
func Triangulate(points []projection.Point2) []uint32 {
	n := len(points)
	if n < 3 {
		return nil
	}

	orig := make([]int, n)
	work := make([]projection.Point2, n)
	copy(work, points)
	for i := range orig {
		orig[i] = i
	}

	if signedArea(work) > 0 {
		reversePoints(work)
		reverseInts(orig)
	}

	// Circular doubly-linked ring over indices into work/orig.
	next := make([]int, n)
	prev := make([]int, n)
	for i := 0; i < n; i++ {
		next[i] = (i + 1) % n
		prev[i] = (i - 1 + n) % n
	}

	indices := make([]uint32, 0, 3*(n-2))
	remaining := n
	cur := 0

	for remaining > 2 {
		foundEar := false
		start := cur
		for {
			p := prev[cur]
			nx := next[cur]

			if isEar(work, prev, next, cur, remaining) {
				indices = append(indices,
					uint32(orig[p]), uint32(orig[cur]), uint32(orig[nx]))

				next[p] = nx
				prev[nx] = p
				remaining--
				cur = nx
				foundEar = true
				break
			}

			cur = nx
			if cur == start {
				break
			}
		}

		if !foundEar {
			indices = append(indices, fanFallback(orig, next, cur, remaining)...)
			return indices
		}
	}

	return indices
}

// isEar reports whether vertex v (index into work) is convex under the
// canonicalized counter-clockwise orientation and whether no other
// remaining vertex lies inside triangle (prev, v, next).
func isEar(work []projection.Point2, prev, next []int, v, remaining int) bool {
	p := work[prev[v]]
	c := work[v]
	nx := work[next[v]]

	cross := (c.X-p.X)*(nx.Z-p.Z) - (c.Z-p.Z)*(nx.X-p.X)
	if cross >= 0 {
		return false // reflex or collinear under this orientation
	}

	j := next[next[v]]
	for count := 0; count < remaining-3; count++ {
		if j != prev[v] && j != v && j != next[v] {
			if pointInTriangle(work[j], p, c, nx) {
				return false
			}
		}
		j = next[j]
	}
	return true
}

// pointInTriangle classifies p against triangle (a,b,c) using the
// has-negative-AND-has-positive signed-area test; boundary points count
// as inside.
func pointInTriangle(p, a, b, c projection.Point2) bool {
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0

	return !(hasNeg && hasPos)
}

func sign(p1, p2, p3 projection.Point2) float64 {
	return (p1.X-p3.X)*(p2.Z-p3.Z) - (p2.X-p3.X)*(p1.Z-p3.Z)
}

func signedArea(points []projection.Point2) float64 {
	n := len(points)
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X*points[j].Z - points[j].X*points[i].Z
	}
	return area
}

// fanFallback triangulates the remaining ring (starting at cur) as a
// fan from its first vertex. It always produces exactly 3*(remaining-2)
// indices and always terminates.
func fanFallback(orig []int, next []int, cur, remaining int) []uint32 {
	if remaining < 3 {
		return nil
	}

	ring := make([]int, 0, remaining)
	i := cur
	for count := 0; count < remaining; count++ {
		ring = append(ring, i)
		i = next[i]
	}

	out := make([]uint32, 0, 3*(remaining-2))
	for k := 1; k < remaining-1; k++ {
		out = append(out, uint32(orig[ring[0]]), uint32(orig[ring[k]]), uint32(orig[ring[k+1]]))
	}
	return out
}

func reversePoints(v []projection.Point2) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

func reverseInts(v []int) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
