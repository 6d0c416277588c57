// Package cmd - catalog management commands
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bike-config/core/catalog"
	"bike-config/core/rules"
	"bike-config/core/types"
	"bike-config/db/catalogstore"
	"bike-config/internal/config"
	"bike-config/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Parts catalog management",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <links.json>",
	Short: "Import a JSON links file into the SQLite catalog",
	Long: `Import a links file into the SQLite catalog.

The import runs in three steps:
  1. LOAD      - read and trim every entry (no writes)
  2. VALIDATE  - every key the rules can produce must be present
  3. COMMIT    - replace the catalog in one transaction

Importing the same content twice is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report missing, duplicate and stale catalog entries",
	Args:  cobra.NoArgs,
	RunE:  runCatalogCheck,
}

var catalogImportsCmd = &cobra.Command{
	Use:   "history",
	Short: "List past imports into the SQLite catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogHistory,
}

var (
	catalogDB      string
	catalogForce   bool
	catalogJSON    bool
	catalogTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd, catalogCheckCmd, catalogImportsCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogDB, "db", "", "SQLite catalog path (default: catalog.path when the backend is sqlite)")
	catalogCmd.PersistentFlags().DurationVar(&catalogTimeout, "timeout", time.Minute, "timeout for the operation")
	catalogImportCmd.Flags().BoolVar(&catalogForce, "force", false, "import even if keys are missing")
	catalogCheckCmd.Flags().BoolVar(&catalogJSON, "json", false, "print the report as JSON")
}

func sqlitePath() (string, error) {
	if catalogDB != "" {
		return catalogDB, nil
	}
	cfg := config.Get().Catalog
	if strings.EqualFold(cfg.Backend, catalogstore.BackendSQLite) {
		return cfg.Path, nil
	}
	return "", fmt.Errorf("catalog backend is %q; pass --db to choose a SQLite file", cfg.Backend)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), catalogTimeout)
	defer cancel()

	path, err := sqlitePath()
	if err != nil {
		return err
	}
	dest, err := catalogstore.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer func() { _ = dest.Close() }()

	res, err := catalogstore.NewImporter(dest, logging.Named("import"), catalogForce).
		Import(ctx, catalogstore.NewJSONStore(args[0]))
	if res != nil {
		printReport(cmd, res.Report)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Record.Unchanged {
		fmt.Fprintf(out, "Catalog unchanged (matches import %s)\n", res.Record.ID)
		return nil
	}
	fmt.Fprintf(out, "Imported %d parts into %s (import %s)\n", res.Record.Parts, dest.Path(), res.Record.ID)
	return nil
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), catalogTimeout)
	defer cancel()

	store, closeStore, err := catalogstore.Open(config.Get().Catalog)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	parts, err := store.Load(ctx)
	if err != nil {
		return err
	}
	report := catalog.Validate(parts, rules.AllKeys(), catalog.DefaultPartRules())

	if catalogJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(cmd, report)
		stats := catalog.NewLookup(parts).Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d entries (%d references), %d stale, %d unpriced\n",
			stats.Total, len(catalog.References(parts)), stats.Stale, stats.Unpriced)
		components := make([]string, 0, len(stats.ByComponent))
		for c := range stats.ByComponent {
			components = append(components, c)
		}
		sort.Strings(components)
		for _, c := range components {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %d\n", c, stats.ByComponent[c])
		}
	}
	if !report.OK() {
		return fmt.Errorf("catalog %s is incomplete", store.Name())
	}
	return nil
}

func runCatalogHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), catalogTimeout)
	defer cancel()

	path, err := sqlitePath()
	if err != nil {
		return err
	}
	s, err := catalogstore.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	imports, err := s.Imports(ctx)
	if err != nil {
		return err
	}
	for _, rec := range imports {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %4d parts  %s  %s\n",
			rec.ImportedAt.Format(time.RFC3339), rec.ID, rec.Parts, rec.Hash[:12], rec.Source)
	}
	return nil
}

func printReport(cmd *cobra.Command, r catalog.Report) {
	out := cmd.OutOrStdout()
	section := func(title string, keys []string) {
		if len(keys) == 0 {
			return
		}
		fmt.Fprintf(out, "%s (%d):\n", title, len(keys))
		for _, k := range keys {
			fmt.Fprintf(out, "  %s\n", k)
		}
	}
	section("Missing", keyStrings(r.Missing))
	section("Duplicates", keyStrings(r.Duplicates))
	section("Stale", keyStrings(r.Stale))
	section("Unused", keyStrings(r.Unused))
	section("Problems", r.Problems)
	if r.OK() {
		fmt.Fprintf(out, "Catalog OK: %d entries\n", r.Entries)
	}
}

func keyStrings(keys []types.ReferenceKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return out
}
