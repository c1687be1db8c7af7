// internal/batch/processor_test.go - Unit tests for batch normalization
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/fieldops/geonav/internal/config"
	"github.com/fieldops/geonav/internal/source"
	"github.com/fieldops/geonav/pkg/crs"
	"github.com/fieldops/geonav/pkg/shapefile"
)

// fakeFetcher serves canned payloads keyed by shapefile id
type fakeFetcher struct {
	payloads map[string][]byte
}

func (f *fakeFetcher) Fetch(request *source.PayloadRequest) (*source.PayloadResponse, error) {
	data, ok := f.payloads[request.ID]
	if !ok {
		return nil, fmt.Errorf("unknown shapefile %s", request.ID)
	}
	return &source.PayloadResponse{
		Request:    request,
		Data:       data,
		StatusCode: 200,
		Size:       len(data),
	}, nil
}

func (f *fakeFetcher) FetchWithRetry(request *source.PayloadRequest) (*source.PayloadResponse, error) {
	return f.Fetch(request)
}

const twoPointCollection = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}, "properties": {}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [10, 20]}, "properties": {}}
	]
}`

func newTestProcessor(payloads map[string][]byte, jobConfig *JobConfig) *BatchProcessor {
	factory := source.NewFetcherFactory(&config.Config{})
	fetcher := &fakeFetcher{payloads: payloads}
	cache := crs.NewCache(nil)
	return NewBatchProcessor(factory, fetcher, shapefile.NewNormalizer(), cache, nil, jobConfig)
}

func TestProcessIsolatesCorruptShapefile(t *testing.T) {
	processor := newTestProcessor(map[string][]byte{
		"good": []byte(twoPointCollection),
		"bad":  {0xde, 0xad, 0xbe, 0xef},
	}, &JobConfig{Concurrency: 2, Timeout: time.Minute})

	result, err := processor.Process(context.Background(), []string{"good", "bad"})
	if err != nil {
		t.Fatalf("one corrupt shapefile must not fail the job: %v", err)
	}

	if len(result.Collections) != 1 {
		t.Fatalf("expected 1 surviving collection, got %d", len(result.Collections))
	}
	fc, ok := result.Collections["good"]
	if !ok {
		t.Fatal("valid shapefile missing from collections")
	}
	if len(fc.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(fc.Features))
	}

	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	failure := result.Failures[0]
	if failure.Item.Request.ID != "bad" {
		t.Errorf("failure attributed to %q, want bad", failure.Item.Request.ID)
	}
	var sfErr *shapefile.ShapefileError
	if !errors.As(failure.Error, &sfErr) || sfErr.Code != shapefile.ErrorCodeDecode {
		t.Errorf("expected decode error, got %v", failure.Error)
	}

	progress := result.Progress
	if progress.ProcessedShapefiles != 2 || progress.SuccessShapefiles != 1 || progress.FailedShapefiles != 1 {
		t.Errorf("unexpected progress counts: %+v", progress)
	}
	if progress.TotalFeatures != 2 {
		t.Errorf("expected 2 total features, got %d", progress.TotalFeatures)
	}
}

func TestProcessAppliesConfiguredPadding(t *testing.T) {
	processor := newTestProcessor(map[string][]byte{
		"good": []byte(twoPointCollection),
	}, &JobConfig{Concurrency: 1, Timeout: time.Minute, PaddingRatio: 0.5})

	result, err := processor.Process(context.Background(), []string{"good"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Extent == nil {
		t.Fatal("expected a combined extent")
	}

	// Raw extent [0,0,10,20] padded by half of each axis span
	want := [4]float64{-5, -10, 15, 30}
	got := [4]float64{result.Extent.MinLon(), result.Extent.MinLat(), result.Extent.MaxLon(), result.Extent.MaxLat()}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("extent = %v, want %v", got, want)
		}
	}
	if result.Zoom != 8 {
		t.Errorf("zoom = %d, want 8", result.Zoom)
	}
}

func TestProcessAllFailed(t *testing.T) {
	processor := newTestProcessor(map[string][]byte{
		"bad": {0x00, 0x01, 0x02},
	}, &JobConfig{Concurrency: 1, Timeout: time.Minute})

	result, err := processor.Process(context.Background(), []string{"bad"})
	if err == nil {
		t.Fatal("expected error when every shapefile fails")
	}
	if len(result.Failures) != 1 {
		t.Errorf("expected 1 failure, got %d", len(result.Failures))
	}
}
