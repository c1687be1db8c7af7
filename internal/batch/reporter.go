// internal/batch/reporter.go - Progress reporting implementation
package batch

import "log"

// LogReporter reports job progress through the standard logger
type LogReporter struct {
	verbose bool
}

// NewLogReporter creates a new log-based progress reporter
func NewLogReporter(verbose bool) *LogReporter {
	return &LogReporter{verbose: verbose}
}

// ReportProgress logs the job's starting state
func (r *LogReporter) ReportProgress(progress *JobProgress) {
	log.Printf("Processing %d shapefiles", progress.TotalShapefiles)
}

// ReportItemComplete logs the outcome of a single shapefile
func (r *LogReporter) ReportItemComplete(result *WorkResult) {
	if result.Error != nil {
		log.Printf("Warning: shapefile %s failed after %d attempts: %v",
			result.Item.Request.ID, result.Attempts, result.Error)
		return
	}

	if r.verbose {
		log.Printf("Normalized shapefile %s: %d features in %v",
			result.Item.Request.ID, len(result.Collection.Features), result.Duration)
	}
}

// ReportJobComplete logs the final job summary
func (r *LogReporter) ReportJobComplete(result *JobResult) {
	progress := result.Progress
	log.Printf("Completed: %d/%d shapefiles normalized, %d features (%.1f files/sec)",
		progress.SuccessShapefiles, progress.TotalShapefiles,
		progress.TotalFeatures, progress.Throughput)

	if result.Extent != nil {
		log.Printf("Combined extent %s at zoom %d", result.Extent, result.Zoom)
	}
}

// ReportJobFailed logs a fatal job error
func (r *LogReporter) ReportJobFailed(progress *JobProgress, err error) {
	log.Printf("Job failed after %d/%d shapefiles: %v",
		progress.ProcessedShapefiles, progress.TotalShapefiles, err)
}
