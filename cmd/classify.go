// cmd/classify.go - Coordinate classification command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fieldops/geonav/pkg/crs"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [x] [y]",
	Short: "Classify a coordinate pair and repair it if projected",
	Long: `Classify a single coordinate pair as geographic, projected, or unknown.

Projected pairs are run through the candidate projection table and the
first projection that lands in geographic range wins. Unknown pairs are
reported without a transform attempt.

Examples:
  # A Web Mercator pair
  geonav classify -- -8238310.24 4969803.34

  # A UTM pair with a custom candidate order
  geonav classify --projections utm-10n,web-mercator -- 551130 4180959`,
	Args: cobra.ExactArgs(2),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x coordinate %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y coordinate %q: %w", args[1], err)
	}

	classification := crs.Classify(x, y)

	report := map[string]interface{}{
		"x":              x,
		"y":              y,
		"classification": classification,
	}

	if classification == crs.ClassificationProjected {
		names := viper.GetStringSlice("projections.candidates")
		candidates, err := crs.CandidatesByName(names)
		if err != nil {
			return fmt.Errorf("invalid projection candidates: %w", err)
		}

		result := crs.NewTransformer(candidates...).Transform(x, y)
		report["repaired"] = result
	}

	var data []byte
	if viper.GetBool("output.pretty") {
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
