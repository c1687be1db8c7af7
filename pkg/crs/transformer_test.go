// pkg/crs/transformer_test.go - Unit tests for projection transforms
package crs

import (
	"math"
	"testing"
)

func TestWebMercatorToWGS84(t *testing.T) {
	// Web Mercator point (roughly New York City)
	lon, lat := WebMercator{}.ToWGS84(-8238310.24, 4969803.34)

	expectedLon := -74.006
	expectedLat := 40.7128
	tolerance := 0.1

	if math.Abs(lon-expectedLon) > tolerance {
		t.Errorf("Longitude conversion incorrect: expected ~%f, got %f", expectedLon, lon)
	}
	if math.Abs(lat-expectedLat) > tolerance {
		t.Errorf("Latitude conversion incorrect: expected ~%f, got %f", expectedLat, lat)
	}
}

func TestUTMZoneToWGS84(t *testing.T) {
	tests := []struct {
		name      string
		zone      int
		x         float64
		y         float64
		wantLon   float64
		wantLat   float64
		tolerance float64
	}{
		{
			name:      "zone 31 paris",
			zone:      31,
			x:         448251.795,
			y:         5411932.678,
			wantLon:   2.2945,
			wantLat:   48.8582,
			tolerance: 0.001,
		},
		{
			name:      "zone 10 san francisco bay",
			zone:      10,
			x:         551130,
			y:         4180959,
			wantLon:   -122.42,
			wantLat:   37.78,
			tolerance: 0.01,
		},
		{
			name:      "central meridian easting",
			zone:      12,
			x:         500000,
			y:         4000000,
			wantLon:   -111.0,
			wantLat:   36.14,
			tolerance: 0.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat := UTMZone{Zone: tt.zone}.ToWGS84(tt.x, tt.y)
			if math.Abs(lon-tt.wantLon) > tt.tolerance {
				t.Errorf("lon = %f, want ~%f", lon, tt.wantLon)
			}
			if math.Abs(lat-tt.wantLat) > tt.tolerance {
				t.Errorf("lat = %f, want ~%f", lat, tt.wantLat)
			}
		})
	}
}

func TestTransformFirstMatchWins(t *testing.T) {
	transformer := NewTransformer()

	// Web Mercator heads the candidate table, so any pair whose Mercator
	// inverse lands in range resolves against it before the UTM zones.
	result := transformer.Transform(551130, 4180959)
	if !result.OK {
		t.Fatal("expected transform to succeed")
	}
	if result.Projection != "web-mercator" {
		t.Errorf("expected first candidate to win, got %s", result.Projection)
	}
}

func TestTransformCustomCandidateOrder(t *testing.T) {
	transformer := NewTransformer(UTMZone{Zone: 10})

	result := transformer.Transform(551130, 4180959)
	if !result.OK {
		t.Fatal("expected transform to succeed")
	}
	if result.Projection != "utm-10n" {
		t.Errorf("expected utm-10n, got %s", result.Projection)
	}
	if math.Abs(result.Lon-(-122.42)) > 0.01 || math.Abs(result.Lat-37.78) > 0.01 {
		t.Errorf("unexpected coordinates: %f, %f", result.Lon, result.Lat)
	}
}

func TestTransformNoCandidateResolves(t *testing.T) {
	// An easting beyond the Web Mercator square and far outside any UTM
	// zone pushes every candidate out of geographic range.
	transformer := NewTransformer()
	result := transformer.Transform(2.5e7, 1e6)
	if result.OK {
		t.Errorf("expected failure, got %+v", result)
	}
	if result.Projection != "" {
		t.Errorf("failed result must not carry a projection name, got %s", result.Projection)
	}
}

func TestCandidatesByName(t *testing.T) {
	candidates, err := CandidatesByName([]string{"utm-11n", "web-mercator"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Name() != "utm-11n" || candidates[1].Name() != "web-mercator" {
		t.Error("candidate order not preserved")
	}

	if _, err := CandidatesByName([]string{"mars-2000"}); err == nil {
		t.Error("expected error for unknown projection name")
	}
}

func TestDefaultCandidateOrder(t *testing.T) {
	names := []string{}
	for _, c := range DefaultCandidates() {
		names = append(names, c.Name())
	}
	want := []string{"web-mercator", "utm-10n", "utm-11n", "utm-12n"}
	if len(names) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("candidate %d = %s, want %s", i, names[i], want[i])
		}
	}
}
