// internal/batch/processor.go - Batch normalization implementation
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/fieldops/geonav/internal/source"
	"github.com/fieldops/geonav/pkg/crs"
	"github.com/fieldops/geonav/pkg/geometry"
	"github.com/fieldops/geonav/pkg/shapefile"
)

// BatchProcessor implements the Processor interface for batch normalization
// operations. Each shapefile is fetched, decoded and coordinate-repaired
// independently; one bad file never aborts the rest of the job.
type BatchProcessor struct {
	factory    *source.FetcherFactory
	fetcher    source.Fetcher
	normalizer *shapefile.Normalizer
	cache      *crs.Cache
	reporter   ProgressReporter
	config     *JobConfig
	mutex      sync.RWMutex
}

// NewBatchProcessor creates a new batch processor with the specified components
func NewBatchProcessor(factory *source.FetcherFactory, fetcher source.Fetcher, normalizer *shapefile.Normalizer, cache *crs.Cache, reporter ProgressReporter, config *JobConfig) *BatchProcessor {
	if config == nil {
		config = NewJobConfig()
	}
	return &BatchProcessor{
		factory:    factory,
		fetcher:    fetcher,
		normalizer: normalizer,
		cache:      cache,
		reporter:   reporter,
		config:     config,
	}
}

// Process executes a complete batch normalization job for the given
// shapefile ids. The transformation cache is synchronized to this id set
// before any work begins, so stale entries from a previous set never leak
// into the results.
func (bp *BatchProcessor) Process(ctx context.Context, ids []string) (*JobResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no shapefile ids to process")
	}

	progress := NewJobProgress()
	progress.TotalShapefiles = int64(len(ids))

	bp.cache.SyncFingerprint(crs.Fingerprint(ids))

	if bp.reporter != nil {
		bp.reporter.ReportProgress(progress)
	}

	ctx, cancel := context.WithTimeout(ctx, bp.config.Timeout)
	defer cancel()

	workChan := make(chan *WorkItem, len(ids))
	resultChan := make(chan *WorkResult, len(ids))

	for i, id := range ids {
		workChan <- NewWorkItem(bp.factory.BuildRequest(id), i)
	}
	close(workChan)

	var wg sync.WaitGroup
	concurrency := bp.config.Concurrency
	if concurrency > len(ids) {
		concurrency = len(ids)
	}

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bp.worker(ctx, workChan, resultChan)
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	result := &JobResult{
		Collections: make(map[string]*geojson.FeatureCollection),
		Progress:    progress,
	}

	var geoms []orb.Geometry
	for workResult := range resultChan {
		bp.updateProgress(progress, workResult)

		if bp.reporter != nil {
			bp.reporter.ReportItemComplete(workResult)
		}

		if workResult.Error != nil {
			result.Failures = append(result.Failures, workResult)
			if bp.config.FailOnError {
				cancel()
				err := fmt.Errorf("shapefile %s failed: %w", workResult.Item.Request.ID, workResult.Error)
				if bp.reporter != nil {
					bp.reporter.ReportJobFailed(progress, err)
				}
				return result, err
			}
			continue
		}

		result.Collections[workResult.Item.Request.ID] = workResult.Collection
		for _, feature := range workResult.Collection.Features {
			geoms = append(geoms, feature.Geometry)
		}
	}

	if len(result.Collections) == 0 {
		err := fmt.Errorf("all %d shapefiles failed to normalize", len(ids))
		if bp.reporter != nil {
			bp.reporter.ReportJobFailed(progress, err)
		}
		return result, err
	}

	// Derive the combined extent and zoom from every surviving geometry
	extent, err := geometry.ComputeExtent(geoms, bp.cache)
	if err == nil {
		ratio := bp.config.PaddingRatio
		if ratio <= 0 {
			ratio = geometry.DefaultPaddingRatio
		}
		padded := extent.Pad(ratio)
		result.Extent = &padded
		result.Zoom = geometry.ZoomForExtent(padded)
	}

	if bp.reporter != nil {
		bp.reporter.ReportJobComplete(result)
	}

	return result, nil
}

// worker normalizes work items until the channel drains or the context ends
func (bp *BatchProcessor) worker(ctx context.Context, workChan <-chan *WorkItem, resultChan chan<- *WorkResult) {
	for workItem := range workChan {
		select {
		case <-ctx.Done():
			resultChan <- &WorkResult{
				Item:     workItem,
				Error:    ctx.Err(),
				Attempts: 1,
			}
			return
		default:
		}

		resultChan <- bp.processWorkItem(workItem)
	}
}

// processWorkItem fetches and normalizes a single shapefile with retry logic
func (bp *BatchProcessor) processWorkItem(workItem *WorkItem) *WorkResult {
	start := time.Now()
	var lastErr error

	for attempt := 0; attempt <= 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		response, err := bp.fetcher.Fetch(workItem.Request)
		if err != nil {
			lastErr = fmt.Errorf("fetch failed: %w", err)
			continue
		}

		sf := &shapefile.Shapefile{
			ID:        workItem.Request.ID,
			Name:      workItem.Request.Name,
			Raw:       response.Data,
			IsVisible: true,
		}

		fc, err := bp.normalizer.Normalize(sf)
		if err != nil {
			// Decoding failures are deterministic; retrying cannot help
			return &WorkResult{
				Item:     workItem,
				Error:    err,
				Duration: time.Since(start),
				Attempts: attempt + 1,
			}
		}

		for _, feature := range fc.Features {
			feature.Geometry = geometry.NormalizeGeometry(feature.Geometry, bp.cache)
		}

		return &WorkResult{
			Item:       workItem,
			Collection: fc,
			Duration:   time.Since(start),
			Attempts:   attempt + 1,
		}
	}

	return &WorkResult{
		Item:     workItem,
		Error:    lastErr,
		Duration: time.Since(start),
		Attempts: 4,
	}
}

// updateProgress folds one work result into the job progress
func (bp *BatchProcessor) updateProgress(progress *JobProgress, workResult *WorkResult) {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	progress.ProcessedShapefiles++
	if workResult.Error != nil {
		progress.FailedShapefiles++
	} else {
		progress.SuccessShapefiles++
		progress.TotalFeatures += int64(len(workResult.Collection.Features))
	}
	progress.UpdateThroughput()

	estimatedEnd := progress.EstimateCompletion()
	progress.EstimatedEnd = &estimatedEnd
}
