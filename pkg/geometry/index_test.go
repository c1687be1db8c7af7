// pkg/geometry/index_test.go - Unit tests for the boundary index
package geometry

import (
	"testing"

	"github.com/paulmach/orb"
)

func testBoundaries() []*Boundary {
	return []*Boundary{
		{
			ID:   "west",
			Name: "West Sector",
			Ring: orb.Ring{{-10, -10}, {0, -10}, {0, 10}, {-10, 10}},
		},
		{
			ID:   "east",
			Name: "East Sector",
			Ring: orb.Ring{{0, -10}, {10, -10}, {10, 10}, {0, 10}},
		},
		{
			ID:   "overlay",
			Name: "Overlay",
			Ring: orb.Ring{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}},
		},
	}
}

func TestBoundaryIndexCovering(t *testing.T) {
	idx := NewBoundaryIndex(testBoundaries())

	covering := idx.Covering(orb.Point{-7, 0})
	if len(covering) != 1 || covering[0].ID != "west" {
		t.Errorf("expected only west sector, got %d results", len(covering))
	}

	covering = idx.Covering(orb.Point{2, 2})
	ids := map[string]bool{}
	for _, b := range covering {
		ids[b.ID] = true
	}
	if !ids["east"] || !ids["overlay"] || len(ids) != 2 {
		t.Errorf("expected east and overlay, got %v", ids)
	}

	if covering = idx.Covering(orb.Point{50, 50}); len(covering) != 0 {
		t.Errorf("expected no coverage far outside, got %d", len(covering))
	}
}

func TestBoundaryIndexGet(t *testing.T) {
	idx := NewBoundaryIndex(testBoundaries())

	if b := idx.Get("east"); b == nil || b.Name != "East Sector" {
		t.Errorf("unexpected lookup result: %+v", b)
	}
	if b := idx.Get("missing"); b != nil {
		t.Errorf("expected nil for unknown id, got %+v", b)
	}
	if idx.Len() != 3 {
		t.Errorf("expected 3 indexed boundaries, got %d", idx.Len())
	}
}

func TestBoundaryIndexSkipsEmptyRings(t *testing.T) {
	idx := NewBoundaryIndex([]*Boundary{
		{ID: "empty"},
		{ID: "real", Ring: orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
	})
	if idx.Len() != 1 {
		t.Errorf("expected empty ring to be skipped, got %d entries", idx.Len())
	}
}
