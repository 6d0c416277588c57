// Package cmd - stored bike commands
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bike-config/core/options"
	"bike-config/internal/app"
)

var bikesCmd = &cobra.Command{
	Use:   "bikes",
	Short: "Manage stored bikes",
}

var bikesAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Store a bike from an HCL file and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := loadBike(args[0], bikeName)
		if err != nil {
			return err
		}
		if violations := options.Violations(spec); len(violations) > 0 {
			for _, v := range violations {
				fmt.Fprintln(cmd.ErrOrStderr(), "  "+v)
			}
			return fmt.Errorf("%s is not an offered combination", spec.Name)
		}
		return withApp(func(a *app.App) error {
			bike, err := a.Bikes.Create(spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%s)\n", bike.Specification.Name, bike.ID)
			return nil
		})
	},
}

var bikesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored bikes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			bikes, err := a.Bikes.List()
			if err != nil {
				return err
			}
			current := ""
			if cur, err := a.Bikes.Current(); err == nil {
				current = cur.Specification.Name
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, b := range bikes {
				marker := " "
				if b.Specification.Name == current {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, b.Specification.Name, b.Specification)
			}
			return tw.Flush()
		})
	},
}

var bikesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a stored bike current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			return a.Bikes.SetCurrent(args[0])
		})
	},
}

var bikesBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the stored bikes to the backup file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error { return a.Bikes.Backup() })
	},
}

var bikesRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace the stored bikes with the backup file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error { return a.Bikes.RestoreFromBackup() })
	},
}

var bikesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored bike (the backup is kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error { return a.Bikes.DeleteAll() })
	},
}

func init() {
	rootCmd.AddCommand(bikesCmd)
	bikesCmd.AddCommand(bikesAddCmd, bikesListCmd, bikesUseCmd, bikesBackupCmd, bikesRestoreCmd, bikesClearCmd)
	bikesAddCmd.Flags().StringVarP(&bikeName, "bike", "b", "", "bike to store when the file defines several")
}
