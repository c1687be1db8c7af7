// pkg/geometry/extent_test.go - Unit tests for extent folding and zoom
package geometry

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/fieldops/geonav/pkg/crs"
)

func TestComputeExtentSinglePoint(t *testing.T) {
	extent, err := ComputeExtent([]orb.Geometry{orb.Point{10, 20}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Extent{10, 20, 10, 20}
	if extent != want {
		t.Errorf("extent = %v, want %v", extent, want)
	}
}

func TestComputeExtentMultipleGeometries(t *testing.T) {
	geoms := []orb.Geometry{
		orb.Point{10, 20},
		orb.LineString{{12, 18}, {14, 25}},
		orb.Polygon{orb.Ring{{8, 19}, {9, 19}, {9, 21}, {8, 21}, {8, 19}}},
	}

	extent, err := ComputeExtent(geoms, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Extent{8, 18, 14, 25}
	if extent != want {
		t.Errorf("extent = %v, want %v", extent, want)
	}
}

func TestComputeExtentRepairsProjectedVertices(t *testing.T) {
	cache := crs.NewCache(nil)

	// Web Mercator NYC alongside a geographic point
	geoms := []orb.Geometry{
		orb.Point{-8238310.24, 4969803.34},
		orb.Point{-74.0, 40.7},
	}

	extent, err := ComputeExtent(geoms, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if extent.MinLon() < -75 || extent.MaxLon() > -73 {
		t.Errorf("expected longitudes near -74, got %v", extent)
	}
	if extent.MinLat() < 40 || extent.MaxLat() > 41 {
		t.Errorf("expected latitudes near 40.7, got %v", extent)
	}
}

func TestComputeExtentSkipsUnresolvable(t *testing.T) {
	geoms := []orb.Geometry{
		orb.Point{5e8, 5e8}, // unknown, skipped
		orb.Point{10, 20},
	}

	extent, err := ComputeExtent(geoms, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extent != (Extent{10, 20, 10, 20}) {
		t.Errorf("extent = %v, want the one valid vertex", extent)
	}
}

func TestComputeExtentNoValidCoordinates(t *testing.T) {
	geoms := []orb.Geometry{
		orb.Point{5e8, 5e8},
		orb.LineString{{9e9, 1}, {1, 9e9}},
	}

	_, err := ComputeExtent(geoms, nil)
	if !errors.Is(err, ErrInvalidExtent) {
		t.Errorf("expected ErrInvalidExtent, got %v", err)
	}
}

func TestComputeExtentEmptyInput(t *testing.T) {
	if _, err := ComputeExtent(nil, nil); !errors.Is(err, ErrInvalidExtent) {
		t.Errorf("expected ErrInvalidExtent for empty input, got %v", err)
	}
}

func TestPad(t *testing.T) {
	extent := Extent{0, 0, 10, 20}
	padded := extent.Pad(DefaultPaddingRatio)

	want := Extent{-1, -2, 11, 22}
	if padded != want {
		t.Errorf("padded = %v, want %v", padded, want)
	}

	// Strict containment of the raw extent
	if padded.MinLon() >= extent.MinLon() || padded.MaxLon() <= extent.MaxLon() ||
		padded.MinLat() >= extent.MinLat() || padded.MaxLat() <= extent.MaxLat() {
		t.Error("padded extent must strictly contain the raw extent")
	}
}

func TestZoomForExtent(t *testing.T) {
	tests := []struct {
		name string
		span float64
		want uint8
	}{
		{"tiny span", 0.005, 17},
		{"neighborhood span", 0.05, 15},
		{"city span", 0.5, 13},
		{"region span", 2, 10},
		{"state span", 6, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extent := Extent{0, 0, tt.span, tt.span}
			if got := ZoomForExtent(extent); got != tt.want {
				t.Errorf("ZoomForExtent(span %v) = %d, want %d", tt.span, got, tt.want)
			}
		})
	}
}

func TestZoomUsesLargerAxis(t *testing.T) {
	extent := Extent{0, 0, 0.005, 6}
	if got := ZoomForExtent(extent); got != 8 {
		t.Errorf("expected the larger axis to select zoom 8, got %d", got)
	}
}

func TestExtentContains(t *testing.T) {
	extent := Extent{-1, -1, 1, 1}
	if !extent.Contains(orb.Point{0, 0}) {
		t.Error("expected center to be contained")
	}
	if !extent.Contains(orb.Point{1, 1}) {
		t.Error("expected edge to be contained")
	}
	if extent.Contains(orb.Point{2, 0}) {
		t.Error("expected outside point to be rejected")
	}
}
