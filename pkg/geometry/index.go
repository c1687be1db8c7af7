// pkg/geometry/index.go - Spatial index over boundary rings
package geometry

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Boundary is an immutable polygon ring snapshot from the dataset
// collaborator, identified by the id deep links refer to
type Boundary struct {
	ID   string
	Name string
	Ring orb.Ring
}

// Bounds implements the rtreego.Spatial interface over the ring's
// bounding box
func (b *Boundary) Bounds() rtreego.Rect {
	bound := b.Ring.Bound()

	point := rtreego.Point{bound.Min[0], bound.Min[1]}
	lengths := []float64{
		bound.Max[0] - bound.Min[0],
		bound.Max[1] - bound.Min[1],
	}

	// rtreego rejects zero-extent rectangles
	const epsilon = 1e-9
	for i := range lengths {
		if lengths[i] < epsilon {
			lengths[i] = epsilon
		}
	}

	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// BoundaryIndex provides fast point-to-boundary candidate lookup. The
// R-tree narrows candidates by bounding box; the exact ray-casting test
// decides membership.
type BoundaryIndex struct {
	tree    *rtreego.Rtree
	byID    map[string]*Boundary
	entries []*Boundary
}

// NewBoundaryIndex builds an index over the given boundaries
func NewBoundaryIndex(boundaries []*Boundary) *BoundaryIndex {
	tree := rtreego.NewTree(2, 25, 50)
	byID := make(map[string]*Boundary, len(boundaries))

	for _, b := range boundaries {
		if len(b.Ring) == 0 {
			continue
		}
		tree.Insert(b)
		byID[b.ID] = b
	}

	return &BoundaryIndex{
		tree:    tree,
		byID:    byID,
		entries: boundaries,
	}
}

// Get returns the boundary with the given id, or nil
func (idx *BoundaryIndex) Get(id string) *Boundary {
	return idx.byID[id]
}

// Len returns the number of indexed boundaries
func (idx *BoundaryIndex) Len() int {
	return len(idx.byID)
}

// Covering returns every boundary whose ring contains the point. The
// R-tree query prunes by bounding box before the exact test runs.
func (idx *BoundaryIndex) Covering(pt orb.Point) []*Boundary {
	queryRect, err := rtreego.NewRect(rtreego.Point{pt[0], pt[1]}, []float64{1e-9, 1e-9})
	if err != nil {
		return nil
	}

	var result []*Boundary
	for _, spatial := range idx.tree.SearchIntersect(queryRect) {
		boundary := spatial.(*Boundary)
		if PointInRing(pt, boundary.Ring) {
			result = append(result, boundary)
		}
	}
	return result
}
