// Package cmd provides the CLI commands for bike-config.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"bike-config/internal/app"
	"bike-config/internal/config"
	"bike-config/internal/logging"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bike-config",
	Short: "Resolve bicycle specifications into priced parts lists",
	Long: `bike-config turns a bicycle specification into the list of catalog
parts needed to build it, with a total price.

Examples:
  bike-config resolve garage.bike.hcl --bike commuter
  bike-config options --frame ROAD
  bike-config catalog import links.json
  bike-config serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bike-config.yaml or ~/.config/bike-config/bike-config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// A missing .env is normal outside development.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envFile, err)
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// openApp wires the configured components; callers must Close the result
func openApp() (*app.App, error) {
	return app.New(config.Get())
}

func withApp(fn func(*app.App) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	return multierr.Append(fn(a), a.Close())
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bike-config version %s\n", app.Version)
	},
}
