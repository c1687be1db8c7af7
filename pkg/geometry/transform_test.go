// pkg/geometry/transform_test.go - Unit tests for geometry normalization
package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/fieldops/geonav/pkg/crs"
)

func TestNormalizeGeometryRepairsProjectedPoint(t *testing.T) {
	cache := crs.NewCache(nil)

	geom := NormalizeGeometry(orb.Point{-8238310.24, 4969803.34}, cache)
	point := geom.(orb.Point)

	if math.Abs(point[0]-(-74.006)) > 0.1 || math.Abs(point[1]-40.7128) > 0.1 {
		t.Errorf("expected NYC lon/lat, got %v", point)
	}
}

func TestNormalizeGeometryKeepsGeographic(t *testing.T) {
	geom := NormalizeGeometry(orb.Point{-74.0, 40.7}, nil)
	if geom.(orb.Point) != (orb.Point{-74.0, 40.7}) {
		t.Errorf("geographic point must pass through unchanged, got %v", geom)
	}
}

func TestNormalizeGeometryKeepsUnresolvable(t *testing.T) {
	// Unresolvable vertices are kept as-is so the rest of the geometry
	// still renders
	geom := NormalizeGeometry(orb.LineString{{5e8, 5e8}, {10, 20}}, nil)
	line := geom.(orb.LineString)

	if line[0] != (orb.Point{5e8, 5e8}) {
		t.Errorf("unresolvable vertex must be kept, got %v", line[0])
	}
	if line[1] != (orb.Point{10, 20}) {
		t.Errorf("valid vertex must pass through, got %v", line[1])
	}
}

func TestNormalizeGeometryNestedTypes(t *testing.T) {
	poly := orb.Polygon{
		orb.Ring{{-8238310.24, 4969803.34}, {-74.0, 40.7}, {-74.1, 40.6}, {-8238310.24, 4969803.34}},
	}

	geom := NormalizeGeometry(poly, nil)
	result := geom.(orb.Polygon)

	for _, p := range result[0] {
		if math.Abs(p[0]) > 180 || math.Abs(p[1]) > 90 {
			t.Errorf("vertex not normalized: %v", p)
		}
	}

	multi := NormalizeGeometry(orb.MultiPolygon{poly}, nil).(orb.MultiPolygon)
	for _, p := range multi[0][0] {
		if math.Abs(p[0]) > 180 || math.Abs(p[1]) > 90 {
			t.Errorf("multipolygon vertex not normalized: %v", p)
		}
	}
}
