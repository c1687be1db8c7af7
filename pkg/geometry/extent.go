// pkg/geometry/extent.go - Extent folding and zoom selection
package geometry

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/fieldops/geonav/pkg/crs"
)

// ErrInvalidExtent indicates that no usable coordinate was folded into an
// extent, or that repair pushed every vertex out of geographic range
var ErrInvalidExtent = errors.New("no usable coordinates for extent")

// DefaultPaddingRatio is the share of each axis span added symmetrically
// around a raw extent before the viewport uses it
const DefaultPaddingRatio = 0.10

// Extent is an axis-aligned bounding box [minLon, minLat, maxLon, maxLat]
type Extent [4]float64

// MinLon returns the western edge
func (e Extent) MinLon() float64 { return e[0] }

// MinLat returns the southern edge
func (e Extent) MinLat() float64 { return e[1] }

// MaxLon returns the eastern edge
func (e Extent) MaxLon() float64 { return e[2] }

// MaxLat returns the northern edge
func (e Extent) MaxLat() float64 { return e[3] }

// SpanLon returns the longitude span of the extent
func (e Extent) SpanLon() float64 { return e[2] - e[0] }

// SpanLat returns the latitude span of the extent
func (e Extent) SpanLat() float64 { return e[3] - e[1] }

// Center returns the midpoint of the extent
func (e Extent) Center() orb.Point {
	return orb.Point{(e[0] + e[2]) / 2, (e[1] + e[3]) / 2}
}

// Pad adds ratio times each axis span symmetrically. A zero-span axis
// (single point) stays zero-span; viewport zoom handles that case.
func (e Extent) Pad(ratio float64) Extent {
	padLon := e.SpanLon() * ratio
	padLat := e.SpanLat() * ratio
	return Extent{e[0] - padLon, e[1] - padLat, e[2] + padLon, e[3] + padLat}
}

// Contains reports whether the point lies inside the extent, edges included
func (e Extent) Contains(p orb.Point) bool {
	return p[0] >= e[0] && p[0] <= e[2] && p[1] >= e[1] && p[1] <= e[3]
}

// Bound converts the extent to an orb bound
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e[0], e[1]}, Max: orb.Point{e[2], e[3]}}
}

// String formats the extent as [minLon, minLat, maxLon, maxLat]
func (e Extent) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", e[0], e[1], e[2], e[3])
}

// ComputeExtent folds every vertex of every geometry into a raw extent.
// Out-of-range vertices are repaired through the cache-backed transform;
// vertices that remain invalid are skipped. Padding is applied by the
// caller, after the raw fold.
func ComputeExtent(geoms []orb.Geometry, cache *crs.Cache) (Extent, error) {
	if cache == nil {
		cache = crs.NewCache(nil)
	}

	var extent Extent
	valid := 0

	for _, geom := range geoms {
		forEachVertex(geom, func(p orb.Point) {
			result := cache.Resolve(p[0], p[1])
			if !result.OK {
				return
			}
			if valid == 0 {
				extent = Extent{result.Lon, result.Lat, result.Lon, result.Lat}
			} else {
				if result.Lon < extent[0] {
					extent[0] = result.Lon
				}
				if result.Lat < extent[1] {
					extent[1] = result.Lat
				}
				if result.Lon > extent[2] {
					extent[2] = result.Lon
				}
				if result.Lat > extent[3] {
					extent[3] = result.Lat
				}
			}
			valid++
		})
	}

	if valid == 0 {
		return Extent{}, ErrInvalidExtent
	}
	return extent, nil
}

// ZoomForExtent selects a discrete zoom level from the larger axis span.
// Thresholds form a fixed ladder with no interpolation.
func ZoomForExtent(e Extent) uint8 {
	span := e.SpanLon()
	if e.SpanLat() > span {
		span = e.SpanLat()
	}

	switch {
	case span > 5:
		return 8
	case span > 1:
		return 10
	case span > 0.1:
		return 13
	case span > 0.01:
		return 15
	default:
		return 17
	}
}
