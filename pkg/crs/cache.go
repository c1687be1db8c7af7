// pkg/crs/cache.go - Read-through memoization of coordinate resolution
package crs

import (
	"strconv"
	"strings"
	"sync"
)

// ProjectionWGS84 marks results that were already geographic and passed
// through without transformation
const ProjectionWGS84 = "wgs84"

// Cache memoizes classification and transformation outcomes keyed by the
// exact string form of the input pair. Entries are inserted, never mutated,
// and there is no eviction: the whole cache is invalidated when the loaded
// shapefile set's identity fingerprint changes.
type Cache struct {
	mu          sync.Mutex
	entries     map[string]TransformResult
	fingerprint string
	transformer *Transformer
}

// NewCache creates a cache in front of the given transformer, falling back
// to a default-candidate transformer when nil
func NewCache(transformer *Transformer) *Cache {
	if transformer == nil {
		transformer = NewTransformer()
	}
	return &Cache{
		entries:     make(map[string]TransformResult),
		transformer: transformer,
	}
}

// Resolve classifies the pair and, when projected, transforms it through
// the candidate table. On a cache miss the result is computed and inserted;
// on a hit the stored result is returned unchanged. Geographic input passes
// through as-is, unknown input yields a failed result.
func (c *Cache) Resolve(x, y float64) TransformResult {
	key := coordKey(x, y)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.entries[key]; ok {
		return cached
	}

	result := c.resolve(x, y)
	c.entries[key] = result
	return result
}

// resolve computes an uncached outcome. Callers hold the mutex.
func (c *Cache) resolve(x, y float64) TransformResult {
	switch Classify(x, y) {
	case ClassificationGeographic:
		return TransformResult{OK: true, Lon: x, Lat: y, Projection: ProjectionWGS84}
	case ClassificationProjected:
		return c.transformer.Transform(x, y)
	default:
		return TransformResult{}
	}
}

// SyncFingerprint compares the active shapefile set's identity fingerprint
// against the last observed value and clears the cache wholesale when they
// differ. Returns true if the cache was cleared.
func (c *Cache) SyncFingerprint(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fingerprint == c.fingerprint {
		return false
	}

	c.fingerprint = fingerprint
	c.entries = make(map[string]TransformResult)
	return true
}

// Clear discards every cached entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]TransformResult)
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fingerprint derives a shapefile set identity from its ids: the
// concatenated ids plus the count
func Fingerprint(ids []string) string {
	return strings.Join(ids, ",") + ":" + strconv.Itoa(len(ids))
}

// coordKey builds the exact string form of a coordinate pair. FormatFloat
// with precision -1 round-trips float64 exactly, so equal values always
// share a key.
func coordKey(x, y float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64) + "," + strconv.FormatFloat(y, 'g', -1, 64)
}
