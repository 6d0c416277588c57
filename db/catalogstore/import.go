package catalogstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bike-config/core/catalog"
	"bike-config/core/rules"
	"bike-config/core/types"
)

// Importer copies a catalog into SQLite: load → normalize → validate → store.
// Nothing is written when validation finds a missing key, unless forced.
type Importer struct {
	dest   *SQLiteStore
	logger *zap.Logger
	force  bool
}

// NewImporter creates an importer writing to dest
func NewImporter(dest *SQLiteStore, logger *zap.Logger, force bool) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{dest: dest, logger: logger, force: force}
}

// ImportResult is the outcome of one import
type ImportResult struct {
	Record ImportRecord   `json:"record"`
	Report catalog.Report `json:"report"`
}

// Import reads every part from src and replaces the destination catalog
func (im *Importer) Import(ctx context.Context, src catalog.Store) (*ImportResult, error) {
	parts, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	parts = Normalize(parts)

	report := catalog.Validate(parts, rules.AllKeys(), catalog.DefaultPartRules())
	if !report.OK() && !im.force {
		return &ImportResult{Report: report}, fmt.Errorf("catalog %s failed validation: %d missing keys, %d problems",
			src.Name(), len(report.Missing), len(report.Problems))
	}

	rec, err := im.dest.Replace(ctx, src.Name(), Checksum(parts), parts)
	if err != nil {
		return nil, fmt.Errorf("store catalog: %w", err)
	}
	im.logger.Info("catalog imported",
		zap.String("source", src.Name()),
		zap.String("dest", im.dest.Name()),
		zap.Int("parts", rec.Parts),
		zap.Bool("unchanged", rec.Unchanged),
		zap.Int("missing", len(report.Missing)),
	)
	return &ImportResult{Record: rec, Report: report}, nil
}

// Normalize trims whitespace from every text field. Order is kept, since
// the first entry for a reference wins on lookup.
func Normalize(parts []types.Part) []types.Part {
	out := make([]types.Part, 0, len(parts))
	for _, p := range parts {
		p.Reference = types.ReferenceKey(strings.TrimSpace(string(p.Reference)))
		p.Component = strings.TrimSpace(p.Component)
		p.Name = strings.TrimSpace(p.Name)
		p.Price = strings.TrimSpace(p.Price)
		p.Link = strings.TrimSpace(p.Link)
		p.DateLastUpdated = strings.TrimSpace(p.DateLastUpdated)
		out = append(out, p)
	}
	return out
}

// Checksum is a content hash of parts in order
func Checksum(parts []types.Part) string {
	hasher := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(hasher, "%s|%s|%s|%s|%s|%s|%t\n",
			p.Reference, p.Component, p.Name, p.Price, p.Link, p.DateLastUpdated, p.UpToDate)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
