// pkg/geometry/containment.go - Ray-casting containment tests
package geometry

import "github.com/paulmach/orb"

// PointInRing reports whether a point lies inside a polygon ring using the
// even-odd ray-casting rule. Points exactly on an edge inherit the
// algorithm's classic ambiguity and may land on either side.
func PointInRing(pt orb.Point, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	x, y := pt[0], pt[1]

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		intersects := ((yi > y) != (yj > y)) &&
			(x < (xj-xi)*(y-yi)/(yj-yi)+xi)
		if intersects {
			inside = !inside
		}
	}
	return inside
}

// RingWithinBoundary reports whether every vertex of the drawn ring is
// contained by the boundary ring. Only vertices are tested: an edge that
// crosses outside the boundary between two contained vertices still
// passes. Callers relying on strict geometric containment must check edge
// intersections separately.
func RingWithinBoundary(drawn, boundary orb.Ring) bool {
	if len(drawn) == 0 {
		return false
	}
	for _, vertex := range drawn {
		if !PointInRing(vertex, boundary) {
			return false
		}
	}
	return true
}
