// pkg/geometry/transform.go - Per-vertex geometry traversal and repair
package geometry

import (
	"github.com/paulmach/orb"

	"github.com/fieldops/geonav/pkg/crs"
)

// NormalizeGeometry rewrites every vertex of a geometry into WGS84 through
// the cache-backed classifier and transformer. Vertices that cannot be
// resolved are kept as-is rather than dropped, so a partially broken
// geometry still renders; extent folding is where unresolved vertices get
// skipped.
func NormalizeGeometry(geom orb.Geometry, cache *crs.Cache) orb.Geometry {
	if cache == nil {
		cache = crs.NewCache(nil)
	}

	return applyGeometryTransform(geom, func(p orb.Point) orb.Point {
		result := cache.Resolve(p[0], p[1])
		if !result.OK {
			return p
		}
		return orb.Point{result.Lon, result.Lat}
	})
}

// applyGeometryTransform applies a transformation function to all coordinates in a geometry
func applyGeometryTransform(geom orb.Geometry, transform func(orb.Point) orb.Point) orb.Geometry {
	switch g := geom.(type) {
	case orb.Point:
		return transform(g)
	case orb.MultiPoint:
		result := make(orb.MultiPoint, len(g))
		for i, point := range g {
			result[i] = transform(point)
		}
		return result
	case orb.LineString:
		result := make(orb.LineString, len(g))
		for i, point := range g {
			result[i] = transform(point)
		}
		return result
	case orb.MultiLineString:
		result := make(orb.MultiLineString, len(g))
		for i, lineString := range g {
			result[i] = applyGeometryTransform(lineString, transform).(orb.LineString)
		}
		return result
	case orb.Ring:
		result := make(orb.Ring, len(g))
		for i, point := range g {
			result[i] = transform(point)
		}
		return result
	case orb.Polygon:
		result := make(orb.Polygon, len(g))
		for i, ring := range g {
			result[i] = applyGeometryTransform(ring, transform).(orb.Ring)
		}
		return result
	case orb.MultiPolygon:
		result := make(orb.MultiPolygon, len(g))
		for i, polygon := range g {
			result[i] = applyGeometryTransform(polygon, transform).(orb.Polygon)
		}
		return result
	default:
		return geom
	}
}

// forEachVertex visits every coordinate of a geometry in nesting order
func forEachVertex(geom orb.Geometry, visit func(orb.Point)) {
	switch g := geom.(type) {
	case orb.Point:
		visit(g)
	case orb.MultiPoint:
		for _, point := range g {
			visit(point)
		}
	case orb.LineString:
		for _, point := range g {
			visit(point)
		}
	case orb.MultiLineString:
		for _, lineString := range g {
			forEachVertex(lineString, visit)
		}
	case orb.Ring:
		for _, point := range g {
			visit(point)
		}
	case orb.Polygon:
		for _, ring := range g {
			forEachVertex(ring, visit)
		}
	case orb.MultiPolygon:
		for _, polygon := range g {
			forEachVertex(polygon, visit)
		}
	}
}
