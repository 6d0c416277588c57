package catalogstore

import (
	"fmt"
	"strings"

	"bike-config/core/catalog"
	"bike-config/internal/config"
	"bike-config/internal/errors"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the configured catalog store and a function releasing it
func Open(cfg config.CatalogConfig) (catalog.Store, func() error, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendJSON:
		return NewJSONStore(cfg.Path), func() error { return nil }, nil
	case BackendSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, errors.Wrap(errors.TypeConfig, "open sqlite catalog", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.Config(fmt.Sprintf("unknown catalog backend %q", cfg.Backend), nil)
	}
}
