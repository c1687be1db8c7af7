// pkg/shapefile/types.go - Shapefile ingestion types
package shapefile

import "fmt"

// Shapefile is a dataset entry owned by the caller's cache. Raw holds
// either GeoJSON text or a binary shapefile payload; the normalizer treats
// the struct as read-only.
type Shapefile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Raw          []byte `json:"-"`
	IsVisible    bool   `json:"is_visible"`
	FeatureCount int    `json:"feature_count"`
}

// ErrorCode classifies normalization failures
type ErrorCode string

const (
	ErrorCodeDecode      ErrorCode = "decode"
	ErrorCodeEmpty       ErrorCode = "empty"
	ErrorCodeUnsupported ErrorCode = "unsupported"
)

// ShapefileError is a normalization failure scoped to a single shapefile.
// One shapefile failing must never prevent siblings in the same batch from
// normalizing.
type ShapefileError struct {
	ShapefileID string
	Code        ErrorCode
	Cause       error
}

func (e *ShapefileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("shapefile %s: %s: %v", e.ShapefileID, e.Code, e.Cause)
	}
	return fmt.Sprintf("shapefile %s: %s", e.ShapefileID, e.Code)
}

// Unwrap exposes the underlying cause
func (e *ShapefileError) Unwrap() error {
	return e.Cause
}

// newError builds a ShapefileError for the given shapefile
func newError(id string, code ErrorCode, cause error) *ShapefileError {
	return &ShapefileError{ShapefileID: id, Code: code, Cause: cause}
}
