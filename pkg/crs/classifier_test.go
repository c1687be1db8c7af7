// pkg/crs/classifier_test.go - Unit tests for coordinate classification
package crs

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		y    float64
		want Classification
	}{
		{
			name: "typical lon/lat",
			x:    -122.41,
			y:    37.77,
			want: ClassificationGeographic,
		},
		{
			name: "origin",
			x:    0,
			y:    0,
			want: ClassificationGeographic,
		},
		{
			name: "boundary longitude inclusive",
			x:    180,
			y:    45,
			want: ClassificationGeographic,
		},
		{
			name: "boundary latitude inclusive",
			x:    -180,
			y:    -90,
			want: ClassificationGeographic,
		},
		{
			name: "web mercator meters",
			x:    -13627361.03,
			y:    4547675.35,
			want: ClassificationUnknown, // beyond x plausibility bound
		},
		{
			name: "utm easting northing",
			x:    551130.0,
			y:    4180959.0,
			want: ClassificationProjected,
		},
		{
			name: "just past geographic range",
			x:    181,
			y:    45,
			want: ClassificationProjected,
		},
		{
			name: "latitude out of range only",
			x:    100,
			y:    91,
			want: ClassificationProjected,
		},
		{
			name: "x beyond projected plausibility",
			x:    1e7,
			y:    100,
			want: ClassificationUnknown,
		},
		{
			name: "y beyond projected plausibility",
			x:    500,
			y:    2e7,
			want: ClassificationUnknown,
		},
		{
			name: "NaN input",
			x:    math.NaN(),
			y:    10,
			want: ClassificationUnknown,
		},
		{
			name: "infinite input",
			x:    10,
			y:    math.Inf(1),
			want: ClassificationUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.x, tt.y); got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestClassifyGeographicBox(t *testing.T) {
	// Every pair inside the geographic box classifies geographic
	for _, x := range []float64{-180, -90.5, 0, 42.42, 180} {
		for _, y := range []float64{-90, -45.1, 0, 33.3, 90} {
			if got := Classify(x, y); got != ClassificationGeographic {
				t.Errorf("Classify(%v, %v) = %v, want geographic", x, y, got)
			}
		}
	}
}

func TestClassificationIsValid(t *testing.T) {
	for _, c := range []Classification{ClassificationGeographic, ClassificationProjected, ClassificationUnknown} {
		if !c.IsValid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if Classification("bogus").IsValid() {
		t.Error("expected bogus classification to be invalid")
	}
}
