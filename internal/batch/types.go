// internal/batch/types.go - Batch processing types
package batch

import (
	"context"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/fieldops/geonav/internal/source"
	"github.com/fieldops/geonav/pkg/geometry"
)

// JobConfig contains configuration for a batch normalization job
type JobConfig struct {
	Concurrency  int           `json:"concurrency"`
	Timeout      time.Duration `json:"timeout"`
	FailOnError  bool          `json:"fail_on_error"`
	SkipHidden   bool          `json:"skip_hidden"`
	PaddingRatio float64       `json:"padding_ratio"`
}

// JobStatus represents the current status of a batch job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// JobProgress tracks the progress of a batch normalization job
type JobProgress struct {
	TotalShapefiles     int64      `json:"total_shapefiles"`
	ProcessedShapefiles int64      `json:"processed_shapefiles"`
	FailedShapefiles    int64      `json:"failed_shapefiles"`
	SuccessShapefiles   int64      `json:"success_shapefiles"`
	TotalFeatures       int64      `json:"total_features"`
	StartTime           time.Time  `json:"start_time"`
	EstimatedEnd        *time.Time `json:"estimated_end,omitempty"`
	Throughput          float64    `json:"throughput"`
}

// WorkItem represents a single shapefile to normalize
type WorkItem struct {
	Request *source.PayloadRequest `json:"request"`
	ItemID  int                    `json:"item_id"`
	Retry   int                    `json:"retry"`
}

// WorkResult represents the result of normalizing one shapefile
type WorkResult struct {
	Item       *WorkItem                  `json:"item"`
	Collection *geojson.FeatureCollection `json:"collection,omitempty"`
	Error      error                      `json:"error,omitempty"`
	Duration   time.Duration              `json:"duration"`
	Attempts   int                        `json:"attempts"`
}

// JobResult aggregates the output of a complete batch job
type JobResult struct {
	Collections map[string]*geojson.FeatureCollection `json:"collections"`
	Extent      *geometry.Extent                      `json:"extent,omitempty"`
	Zoom        uint8                                 `json:"zoom"`
	Progress    *JobProgress                          `json:"progress"`
	Failures    []*WorkResult                         `json:"failures,omitempty"`
}

// Processor defines the interface for executing batch normalization jobs
type Processor interface {
	Process(ctx context.Context, ids []string) (*JobResult, error)
}

// ProgressReporter defines the interface for reporting job progress
type ProgressReporter interface {
	ReportProgress(progress *JobProgress)
	ReportItemComplete(result *WorkResult)
	ReportJobComplete(result *JobResult)
	ReportJobFailed(progress *JobProgress, err error)
}

// NewJobConfig creates a new job configuration with default values
func NewJobConfig() *JobConfig {
	return &JobConfig{
		Concurrency:  10,
		Timeout:      5 * time.Minute,
		FailOnError:  false,
		SkipHidden:   false,
		PaddingRatio: geometry.DefaultPaddingRatio,
	}
}

// NewJobProgress creates a new job progress tracker
func NewJobProgress() *JobProgress {
	return &JobProgress{
		StartTime: time.Now(),
	}
}

// NewWorkItem creates a new work item
func NewWorkItem(request *source.PayloadRequest, itemID int) *WorkItem {
	return &WorkItem{
		Request: request,
		ItemID:  itemID,
	}
}

// CalculateProgress calculates the completion percentage
func (p *JobProgress) CalculateProgress() float64 {
	if p.TotalShapefiles == 0 {
		return 0
	}
	return float64(p.ProcessedShapefiles) / float64(p.TotalShapefiles) * 100
}

// UpdateThroughput updates the processing throughput based on elapsed time
func (p *JobProgress) UpdateThroughput() {
	elapsed := time.Since(p.StartTime)
	if elapsed.Seconds() > 0 && p.ProcessedShapefiles > 0 {
		p.Throughput = float64(p.ProcessedShapefiles) / elapsed.Seconds()
	}
}

// EstimateCompletion estimates when the job will complete based on current progress
func (p *JobProgress) EstimateCompletion() time.Time {
	if p.Throughput == 0 || p.ProcessedShapefiles == 0 {
		return time.Now().Add(time.Hour)
	}

	remaining := p.TotalShapefiles - p.ProcessedShapefiles
	if remaining <= 0 {
		return time.Now()
	}

	secondsRemaining := float64(remaining) / p.Throughput
	return time.Now().Add(time.Duration(secondsRemaining) * time.Second)
}

// String returns a string representation of the job status
func (s JobStatus) String() string {
	return string(s)
}

// IsValid checks if the job status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed, JobStatusCanceled:
		return true
	default:
		return false
	}
}
