// cmd/root.go - Root command implementation
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geonav",
	Short: "Normalize field shapefiles into map-ready GeoJSON",
	Long: `GeoNav is a command-line tool for normalizing heterogeneous field-boundary
shapefiles into uniform GeoJSON with WGS84 coordinates. It classifies every
coordinate pair, repairs projected values through a candidate projection
table, and derives the map viewport that frames the result.

Data Sources:
- Remote shapefile servers via HTTP/HTTPS
- Local shapefile directories
- Automatic source type detection

Features:
- Decode ESRI shapefiles, zip bundles, and GeoJSON payloads
- Repair Web Mercator and UTM coordinates into geographic range
- Compute padded extents and discrete zoom levels for the viewport
- Concurrent batch processing with per-file error isolation

Examples:
  # Normalize remote shapefiles to a single GeoJSON file
  geonav normalize --base-url "https://fields.example.com/shapefiles" field-a field-b --output fields.geojson

  # Normalize a local directory
  geonav normalize --base-path "/data/shapefiles" field-a --output fields.geojson

  # Print the padded extent and zoom for a set of shapefiles
  geonav extent --base-path "/data/shapefiles" field-a field-b

  # Classify raw coordinate pairs
  geonav classify -- -8238310.24 4969803.34

  # Use configuration file
  geonav normalize --config config.yaml field-a`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geonav.yaml)")

	// Source configuration flags
	rootCmd.PersistentFlags().String("source-type", "auto", "data source type (auto, http, local)")
	rootCmd.PersistentFlags().String("base-url", "", "base URL for shapefile server (HTTP source)")
	rootCmd.PersistentFlags().String("base-path", "", "base path for local shapefiles (local source)")
	rootCmd.PersistentFlags().String("api-key", "", "API key for authentication (HTTP source)")

	// Output flags
	rootCmd.PersistentFlags().StringP("format", "f", "geojson", "output format (geojson, json, stats)")
	rootCmd.PersistentFlags().Bool("pretty", true, "pretty print JSON output")
	rootCmd.PersistentFlags().Bool("compression", false, "compress output files")

	// Processing flags
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().Int("concurrency", 10, "number of concurrent requests")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout (HTTP source)")
	rootCmd.PersistentFlags().Int("retries", 3, "number of retry attempts")
	rootCmd.PersistentFlags().StringSlice("projections",
		[]string{"web-mercator", "utm-10n", "utm-11n", "utm-12n"},
		"candidate projections tried in order")

	// Bind flags to viper
	viper.BindPFlag("source.type", rootCmd.PersistentFlags().Lookup("source-type"))
	viper.BindPFlag("server.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("local.base_path", rootCmd.PersistentFlags().Lookup("base-path"))
	viper.BindPFlag("server.api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output.pretty", rootCmd.PersistentFlags().Lookup("pretty"))
	viper.BindPFlag("output.compression", rootCmd.PersistentFlags().Lookup("compression"))
	viper.BindPFlag("logging.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("batch.concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	viper.BindPFlag("server.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("server.max_retries", rootCmd.PersistentFlags().Lookup("retries"))
	viper.BindPFlag("projections.candidates", rootCmd.PersistentFlags().Lookup("projections"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".geonav" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".geonav")
	}

	// Environment variables
	viper.SetEnvPrefix("GEONAV")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
