// pkg/crs/projection.go - Candidate projection table and inverse math
package crs

import (
	"fmt"
	"math"
)

// Projection converts planar coordinates of one reference system to WGS84
type Projection interface {
	// Name returns the short configuration name of the projection
	Name() string

	// EPSG returns the EPSG code of the source reference system
	EPSG() int

	// ToWGS84 converts source planar coordinates to lon/lat degrees. The
	// result may fall outside valid geographic range; callers decide
	// acceptance.
	ToWGS84(x, y float64) (lon, lat float64)
}

// WGS84 ellipsoid parameters
const (
	wgs84SemiMajor  = 6378137.0
	wgs84Flattening = 1 / 298.257223563
)

// webMercatorMax is the planar extent of the Web Mercator square in meters
const webMercatorMax = 20037508.342789244

// WebMercator is the EPSG:3857 spherical pseudo-Mercator projection
type WebMercator struct{}

// Name returns the configuration name for Web Mercator
func (WebMercator) Name() string { return "web-mercator" }

// EPSG returns 3857
func (WebMercator) EPSG() int { return 3857 }

// ToWGS84 converts Web Mercator meters to lon/lat degrees
func (WebMercator) ToWGS84(x, y float64) (float64, float64) {
	lon := (x / webMercatorMax) * 180.0

	lat := y / webMercatorMax
	lat = 180.0 / math.Pi * (2*math.Atan(math.Exp(lat*math.Pi)) - math.Pi/2.0)

	return lon, lat
}

// UTMZone is a northern-hemisphere Universal Transverse Mercator zone on
// the WGS84 ellipsoid
type UTMZone struct {
	Zone int
}

// Name returns the configuration name, e.g. "utm-10n"
func (z UTMZone) Name() string { return fmt.Sprintf("utm-%dn", z.Zone) }

// EPSG returns the WGS84 / UTM North EPSG code for the zone
func (z UTMZone) EPSG() int { return 32600 + z.Zone }

// centralMeridian returns the zone's central meridian in degrees
func (z UTMZone) centralMeridian() float64 {
	return float64(z.Zone)*6.0 - 183.0
}

// ToWGS84 converts UTM easting/northing meters to lon/lat degrees using
// the standard transverse Mercator inverse series (Snyder, map projections
// working manual, eq. 8-17..8-25).
func (z UTMZone) ToWGS84(x, y float64) (float64, float64) {
	const (
		k0           = 0.9996
		falseEasting = 500000.0
	)

	a := wgs84SemiMajor
	f := wgs84Flattening
	e2 := f * (2 - f)
	ep2 := e2 / (1 - e2)

	m := y / k0
	mu := m / (a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := a / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := a * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := (x - falseEasting) / (n1 * k0)

	lat := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lon := (d - (1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120) / cosPhi1

	return z.centralMeridian() + lon*180.0/math.Pi, lat * 180.0 / math.Pi
}

// DefaultCandidates returns the fixed, ordered candidate projection list.
// Order is significant: the transformer accepts the first candidate whose
// inverse lands in valid geographic range.
func DefaultCandidates() []Projection {
	return []Projection{
		WebMercator{},
		UTMZone{Zone: 10},
		UTMZone{Zone: 11},
		UTMZone{Zone: 12},
	}
}

// CandidatesByName resolves configuration names to projections, preserving
// the given order
func CandidatesByName(names []string) ([]Projection, error) {
	known := make(map[string]Projection)
	for _, p := range allKnownProjections() {
		known[p.Name()] = p
	}

	candidates := make([]Projection, 0, len(names))
	for _, name := range names {
		p, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown projection name: %s", name)
		}
		candidates = append(candidates, p)
	}
	return candidates, nil
}

// allKnownProjections lists every projection the engine can be configured
// with. UTM zones 1N-60N cover the extensibility hook; only 10N-12N are in
// the default candidate order.
func allKnownProjections() []Projection {
	all := []Projection{WebMercator{}}
	for zone := 1; zone <= 60; zone++ {
		all = append(all, UTMZone{Zone: zone})
	}
	return all
}
