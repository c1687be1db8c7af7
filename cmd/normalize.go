// cmd/normalize.go - Batch shapefile normalization command
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fieldops/geonav/internal/batch"
	"github.com/fieldops/geonav/internal/config"
	"github.com/fieldops/geonav/internal/output"
	"github.com/fieldops/geonav/internal/source"
	"github.com/fieldops/geonav/pkg/crs"
	"github.com/fieldops/geonav/pkg/shapefile"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize [shapefile-ids...]",
	Short: "Normalize shapefiles into WGS84 GeoJSON",
	Long: `Normalize one or more shapefiles into uniform GeoJSON FeatureCollections
with geographic (WGS84) coordinates.

Each shapefile is fetched from the configured source, decoded from its
binary or JSON form, and every vertex outside geographic range is repaired
through the candidate projection table. Files are processed concurrently;
a failure in one file never aborts the rest.

Examples:
  # Normalize remote shapefiles to a single merged GeoJSON file
  geonav normalize --base-url "https://fields.example.com/shapefiles" field-a field-b --output fields.geojson

  # Normalize local shapefiles, one output file per input
  geonav normalize --base-path "/data/shapefiles" field-a field-b --output-dir ./out

  # Print the processing summary only
  geonav normalize --base-path "/data/shapefiles" --format stats field-a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	// Output flags
	normalizeCmd.Flags().StringP("output", "o", "", "output file path (default: stdout)")
	normalizeCmd.Flags().String("output-dir", "", "write one file per shapefile into this directory")
	normalizeCmd.Flags().Bool("metadata", false, "include processing metadata in output")
	normalizeCmd.Flags().Bool("fail-on-error", false, "abort the job on the first failed shapefile")
	normalizeCmd.Flags().Bool("skip-hidden", false, "skip shapefiles marked as hidden")

	normalizeCmd.MarkFlagsMutuallyExclusive("output", "output-dir")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	metadata, _ := cmd.Flags().GetBool("metadata")
	failOnError, _ := cmd.Flags().GetBool("fail-on-error")
	skipHidden, _ := cmd.Flags().GetBool("skip-hidden")

	processor, err := buildProcessor(cfg, failOnError, skipHidden)
	if err != nil {
		return err
	}

	if viper.GetBool("logging.verbose") {
		fmt.Fprintf(os.Stderr, "Normalizing %d shapefiles from %s source\n",
			len(args), cfg.DetermineSourceType())
	}

	result, err := processor.Process(context.Background(), args)
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	// Create writer configuration
	writerConfig := &output.WriterConfig{
		Format:      output.Format(cfg.Output.Format),
		Pretty:      cfg.Output.Pretty,
		Compression: cfg.Output.Compression,
		Metadata:    metadata,
	}

	destination := outputPath
	multiFile := false
	if outputDir != "" {
		destination = outputDir
		multiFile = true
	}

	if destination != "" && destination != "-" && !multiFile {
		if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	writer, err := output.NewWriter(writerConfig, destination, multiFile)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer writer.Close()

	if err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if viper.GetBool("logging.verbose") && result.Extent != nil {
		fmt.Fprintf(os.Stderr, "Combined extent %s at zoom %d\n", result.Extent, result.Zoom)
	}

	return nil
}

// buildProcessor wires the batch processor from configuration
func buildProcessor(cfg *config.Config, failOnError, skipHidden bool) (*batch.BatchProcessor, error) {
	factory := source.NewFetcherFactory(cfg)
	fetcher, err := factory.CreateFetcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	candidates, err := crs.CandidatesByName(cfg.Projections.Candidates)
	if err != nil {
		return nil, fmt.Errorf("invalid projection candidates: %w", err)
	}

	cache := crs.NewCache(crs.NewTransformer(candidates...))
	normalizer := shapefile.NewNormalizerWithOptions(&shapefile.Options{
		SkipHidden: skipHidden || cfg.Batch.SkipHidden,
	})

	jobConfig := &batch.JobConfig{
		Concurrency:  cfg.Batch.Concurrency,
		Timeout:      cfg.Batch.Timeout,
		FailOnError:  failOnError || cfg.Batch.FailOnError,
		SkipHidden:   skipHidden || cfg.Batch.SkipHidden,
		PaddingRatio: cfg.Extent.PaddingRatio,
	}

	reporter := batch.NewLogReporter(cfg.Logging.Verbose)

	return batch.NewBatchProcessor(factory, fetcher, normalizer, cache, reporter, jobConfig), nil
}
