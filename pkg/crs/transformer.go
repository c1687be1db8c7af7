// pkg/crs/transformer.go - Projected-to-geographic coordinate resolution
package crs

// TransformResult is the immutable outcome of resolving one coordinate pair
type TransformResult struct {
	OK         bool    `json:"ok"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	Projection string  `json:"projection,omitempty"`
}

// Transformer attempts a fixed, ordered list of candidate projections to
// convert a projected pair to geographic coordinates
type Transformer struct {
	candidates []Projection
}

// NewTransformer creates a transformer over the given candidates, falling
// back to the default candidate table when none are supplied
func NewTransformer(candidates ...Projection) *Transformer {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	return &Transformer{candidates: candidates}
}

// Candidates returns the candidate projections in attempt order
func (t *Transformer) Candidates() []Projection {
	return t.candidates
}

// Transform tries each candidate projection in table order and accepts the
// first inverse result landing within [-180,180]x[-90,90]. There is no
// scoring or best-fit selection; first match wins, so the outcome is
// deterministic for a fixed table.
func (t *Transformer) Transform(x, y float64) TransformResult {
	for _, candidate := range t.candidates {
		lon, lat := candidate.ToWGS84(x, y)
		if inGeographicRange(lon, lat) {
			return TransformResult{
				OK:         true,
				Lon:        lon,
				Lat:        lat,
				Projection: candidate.Name(),
			}
		}
	}
	return TransformResult{}
}
