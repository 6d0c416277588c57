// Package cmd - options command
package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bike-config/core/options"
	"bike-config/core/types"
)

var (
	optFrame        string
	optBars         string
	optCombinations bool
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the choices offered for a bike",
	Long: `Show which values can be chosen for each field once a frame style
(and optionally a handlebar type) is picked.

Examples:
  bike-config options
  bike-config options --frame ROAD
  bike-config options --frame Tour --bars Flat
  bike-config options --frame GRAVEL --combinations`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	optionsCmd.Flags().StringVar(&optFrame, "frame", "", "frame style")
	optionsCmd.Flags().StringVar(&optBars, "bars", "", "handlebar type")
	optionsCmd.Flags().BoolVar(&optCombinations, "combinations", false, "print every offered combination as JSON")
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, args []string) error {
	var spec types.BicycleSpecification
	if optFrame != "" {
		frame, err := types.ParseFrameStyle(optFrame)
		if err != nil {
			return err
		}
		spec.FrameStyle = frame
	}
	if optBars != "" {
		bars, err := types.ParseHandleBarType(optBars)
		if err != nil {
			return err
		}
		spec.HandleBarType = bars
	}

	out := cmd.OutOrStdout()
	if optCombinations {
		combos := options.AllCombinations()
		if spec.FrameStyle != "" {
			combos = options.Combinations(spec.FrameStyle)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(combos)
	}

	o := options.Advise(spec)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	row := func(show bool, label string, values []string) {
		if show {
			fmt.Fprintf(tw, "%s\t%s\n", label, strings.Join(values, ", "))
		}
	}
	row(o.ShowFrameStyles, "Frame", names(o.FrameStyles))
	row(o.ShowGroupsetBrand, "Groupset", names(o.GroupsetBrands))
	row(o.ShowBrakeStyles, "Brakes", names(o.BrakeStyles))
	row(o.ShowBarStyles, "Bars", names(o.BarStyles))
	row(o.ShowShifterStyles, "Shifters", names(o.ShifterStyles))
	row(o.ShowFrontGears, "Front gears", ints(o.FrontGears))
	row(o.ShowRearGears, "Rear gears", ints(o.RearGears))
	row(o.ShowWheelPreference, "Wheels", names(o.WheelPreferences))
	return tw.Flush()
}

type displayNamer interface {
	DisplayName() string
}

func names[T displayNamer](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.DisplayName())
	}
	return out
}

func ints(values []int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
