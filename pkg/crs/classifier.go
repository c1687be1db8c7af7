// pkg/crs/classifier.go - Coordinate classification heuristics
package crs

import (
	"errors"
	"math"
)

// Classification labels a raw coordinate pair by its likely reference system
type Classification string

const (
	ClassificationGeographic Classification = "geographic"
	ClassificationProjected  Classification = "projected"
	ClassificationUnknown    Classification = "unknown"
)

// Errors returned by classification and transformation operations
var (
	ErrUnknownClassification = errors.New("coordinate classification unknown")
	ErrUnresolvedTransform   = errors.New("no candidate projection resolved the coordinate")
)

// Geographic coordinate range limits (WGS84 degrees)
const (
	MaxLongitude = 180.0
	MaxLatitude  = 90.0
)

// Plausibility bounds for projected planar coordinates in meters. Values
// beyond these cannot belong to any candidate projection and are treated
// as unclassifiable.
const (
	maxProjectedX = 1e7
	maxProjectedY = 2e7
)

// Classify labels a raw (x, y) pair as geographic, projected, or unknown.
//
// A pair inside [-180,180]x[-90,90] is geographic, boundary values included.
// A pair outside that box but within projected plausibility bounds is
// projected. Everything else, including non-finite input, is unknown.
// The both-huge-integers guard mirrors the classifier this engine replaces;
// it filters pairs of large integral identifiers mistaken for coordinates.
func Classify(x, y float64) Classification {
	if !isFinite(x) || !isFinite(y) {
		return ClassificationUnknown
	}

	absX, absY := math.Abs(x), math.Abs(y)

	bothHugeIntegers := absX > 1000 && absY > 1000 &&
		x == math.Trunc(x) && y == math.Trunc(y)

	if absX <= MaxLongitude && absY <= MaxLatitude && !bothHugeIntegers {
		return ClassificationGeographic
	}

	if (absX > MaxLongitude || absY > MaxLatitude) && absX < maxProjectedX && absY < maxProjectedY {
		return ClassificationProjected
	}

	return ClassificationUnknown
}

// String returns the classification label
func (c Classification) String() string {
	return string(c)
}

// IsValid checks if the classification is one of the known labels
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationGeographic, ClassificationProjected, ClassificationUnknown:
		return true
	default:
		return false
	}
}

// inGeographicRange reports whether a lon/lat pair lies in valid WGS84 range
func inGeographicRange(lon, lat float64) bool {
	return isFinite(lon) && isFinite(lat) &&
		math.Abs(lon) <= MaxLongitude && math.Abs(lat) <= MaxLatitude
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
