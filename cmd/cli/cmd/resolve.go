// Package cmd - resolve command
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bike-config/adapters/bikefile"
	"bike-config/core/options"
	"bike-config/core/output"
	"bike-config/core/types"
	"bike-config/internal/logging"
)

var (
	outputFormat string
	bikeName     string
	showDetails  bool
	strict       bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve a bike specification into a priced parts list",
	Long: `Resolve a bike defined in an HCL file, or the current stored bike when
no file is given.

Examples:
  bike-config resolve garage.bike.hcl
  bike-config resolve garage.bike.hcl --bike commuter --format json
  bike-config resolve`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
	resolveCmd.Flags().StringVarP(&bikeName, "bike", "b", "", "bike to resolve when the file defines several")
	resolveCmd.Flags().BoolVarP(&showDetails, "details", "d", true, "show product links")
	resolveCmd.Flags().BoolVar(&strict, "strict", false, "refuse specifications outside the offered combinations")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	formatter, err := output.Get(outputFormat)
	if err != nil {
		return err
	}
	if cli, ok := formatter.(*output.CLIFormatter); ok {
		formatter = &output.CLIFormatter{Details: showDetails && cli.Details}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var spec types.BicycleSpecification
	if len(args) == 0 {
		bike, err := a.Bikes.Current()
		if err != nil {
			return err
		}
		spec = bike.Specification
	} else {
		spec, err = loadBike(args[0], bikeName)
		if err != nil {
			return err
		}
	}

	if violations := options.Violations(spec); len(violations) > 0 {
		for _, v := range violations {
			logging.Warn("specification outside offered combinations: " + v)
		}
		if strict {
			return fmt.Errorf("%s: %d illegal choice(s)", spec.Name, len(violations))
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	result := a.Resolver.Resolve(ctx, spec)

	if err := formatter.Render(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("resolution finished with %d error(s)", len(result.Errors))
	}
	return nil
}

func loadBike(path, name string) (types.BicycleSpecification, error) {
	f, err := bikefile.Parse(path)
	if err != nil {
		return types.BicycleSpecification{}, err
	}
	if err := f.Err(); err != nil {
		return types.BicycleSpecification{}, err
	}
	return f.Bike(name)
}
