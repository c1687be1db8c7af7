// internal/output/formatter.go - Output formatting implementation
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/fieldops/geonav/internal/batch"
)

// GeoJSONFormatter merges every normalized collection into a single
// FeatureCollection
type GeoJSONFormatter struct {
	pretty       bool
	includeStats bool
}

// NewGeoJSONFormatter creates a new GeoJSON formatter
func NewGeoJSONFormatter(pretty, includeStats bool) *GeoJSONFormatter {
	return &GeoJSONFormatter{
		pretty:       pretty,
		includeStats: includeStats,
	}
}

// Format merges the result's collections into one FeatureCollection. Input
// shapefiles are visited in id order so output is deterministic.
func (f *GeoJSONFormatter) Format(result *batch.JobResult) ([]byte, error) {
	merged := geojson.NewFeatureCollection()

	for _, id := range sortedIDs(result) {
		for _, feature := range result.Collections[id].Features {
			if f.includeStats {
				if feature.Properties == nil {
					feature.Properties = geojson.Properties{}
				}
				feature.Properties["_shapefile"] = id
			}
			merged.Append(feature)
		}
	}

	if f.includeStats {
		merged.ExtraMembers = geojson.Properties{}
		metadata := map[string]interface{}{
			"total_shapefiles": result.Progress.TotalShapefiles,
			"failed_files":     result.Progress.FailedShapefiles,
			"total_features":   result.Progress.TotalFeatures,
			"generated_at":     time.Now().UTC(),
		}
		if result.Extent != nil {
			metadata["extent"] = result.Extent
			metadata["zoom"] = result.Zoom
		}
		merged.ExtraMembers["_metadata"] = metadata
	}

	if f.pretty {
		return json.MarshalIndent(merged, "", "  ")
	}
	return json.Marshal(merged)
}

// ContentType returns the MIME type for GeoJSON
func (f *GeoJSONFormatter) ContentType() string {
	return "application/geo+json"
}

// JSONFormatter formats results as a structured report keyed by shapefile id
type JSONFormatter struct {
	pretty       bool
	includeStats bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(pretty, includeStats bool) *JSONFormatter {
	return &JSONFormatter{
		pretty:       pretty,
		includeStats: includeStats,
	}
}

// Format formats the result as a JSON object with one entry per shapefile
func (f *JSONFormatter) Format(result *batch.JobResult) ([]byte, error) {
	shapefiles := make(map[string]interface{}, len(result.Collections))
	for id, fc := range result.Collections {
		shapefiles[id] = map[string]interface{}{
			"feature_count": len(fc.Features),
			"collection":    fc,
		}
	}

	output := map[string]interface{}{
		"shapefiles": shapefiles,
	}
	if result.Extent != nil {
		output["extent"] = result.Extent
		output["zoom"] = result.Zoom
	}

	for _, failure := range result.Failures {
		failures, _ := output["failures"].(map[string]interface{})
		if failures == nil {
			failures = make(map[string]interface{})
			output["failures"] = failures
		}
		failures[failure.Item.Request.ID] = failure.Error.Error()
	}

	if f.includeStats {
		output["summary"] = summarize(result)
	}

	if f.pretty {
		return json.MarshalIndent(output, "", "  ")
	}
	return json.Marshal(output)
}

// ContentType returns the MIME type for JSON
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// StatsFormatter emits only the processing summary, without feature data
type StatsFormatter struct {
	pretty bool
}

// NewStatsFormatter creates a new stats formatter
func NewStatsFormatter(pretty bool) *StatsFormatter {
	return &StatsFormatter{pretty: pretty}
}

// Format formats the result's summary as JSON
func (f *StatsFormatter) Format(result *batch.JobResult) ([]byte, error) {
	output := summarize(result)
	if result.Extent != nil {
		output["extent"] = result.Extent
		output["zoom"] = result.Zoom
	}

	if f.pretty {
		return json.MarshalIndent(output, "", "  ")
	}
	return json.Marshal(output)
}

// ContentType returns the MIME type for the stats report
func (f *StatsFormatter) ContentType() string {
	return "application/json"
}

// NewFormatter creates a formatter based on the specified configuration
func NewFormatter(config *FormatterConfig) (Formatter, error) {
	switch config.Format {
	case FormatGeoJSON:
		return NewGeoJSONFormatter(config.Pretty, config.IncludeStats), nil
	case FormatJSON:
		return NewJSONFormatter(config.Pretty, config.IncludeStats), nil
	case FormatStats:
		return NewStatsFormatter(config.Pretty), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", config.Format)
	}
}

// summarize builds the shared processing summary block
func summarize(result *batch.JobResult) map[string]interface{} {
	return map[string]interface{}{
		"total_shapefiles":   result.Progress.TotalShapefiles,
		"success_shapefiles": result.Progress.SuccessShapefiles,
		"failed_shapefiles":  result.Progress.FailedShapefiles,
		"total_features":     result.Progress.TotalFeatures,
		"throughput":         result.Progress.Throughput,
		"generated_at":       time.Now().UTC(),
	}
}

// sortedIDs returns the result's shapefile ids in ascending order
func sortedIDs(result *batch.JobResult) []string {
	ids := make([]string, 0, len(result.Collections))
	for id := range result.Collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
