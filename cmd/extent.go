// cmd/extent.go - Extent and zoom computation command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fieldops/geonav/internal/config"
)

// extentCmd represents the extent command
var extentCmd = &cobra.Command{
	Use:   "extent [shapefile-ids...]",
	Short: "Compute the padded extent and zoom for a set of shapefiles",
	Long: `Compute the combined geographic extent of one or more shapefiles and the
discrete zoom level that frames it.

All shapefiles are normalized first, so projected coordinates are repaired
before they are folded into the extent. The raw extent is padded
symmetrically on both axes before the zoom level is selected.

Examples:
  # Print extent and zoom for two local shapefiles
  geonav extent --base-path "/data/shapefiles" field-a field-b

  # Use a custom padding ratio
  geonav extent --base-path "/data/shapefiles" --padding 0.05 field-a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtent,
}

func init() {
	rootCmd.AddCommand(extentCmd)

	extentCmd.Flags().Float64("padding", 0.10, "padding ratio applied to each axis span")
	viper.BindPFlag("extent.padding_ratio", extentCmd.Flags().Lookup("padding"))
}

func runExtent(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	processor, err := buildProcessor(cfg, false, false)
	if err != nil {
		return err
	}

	result, err := processor.Process(context.Background(), args)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	if result.Extent == nil {
		return fmt.Errorf("no usable coordinates in %d shapefiles", len(args))
	}

	report := map[string]interface{}{
		"extent":         result.Extent,
		"zoom":           result.Zoom,
		"center":         result.Extent.Center(),
		"span_lon":       result.Extent.SpanLon(),
		"span_lat":       result.Extent.SpanLat(),
		"total_features": result.Progress.TotalFeatures,
	}

	var data []byte
	if cfg.Output.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
