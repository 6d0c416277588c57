// Package catalogstore provides the durable catalog backends: the links.json
// file and a SQLite database.
package catalogstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bike-config/core/types"
)

// JSONStore reads the catalog from a links.json file. The file is read on
// every Load, so edits show up in the next resolution.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store for the file at path
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Name implements catalog.Store
func (s *JSONStore) Name() string {
	return "json:" + s.path
}

// Load implements catalog.Store
func (s *JSONStore) Load(ctx context.Context) ([]types.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read links file: %w", err)
	}
	var parts []types.Part
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("decode links file %s: %w", s.path, err)
	}
	return parts, nil
}

// Save writes parts to the file, replacing it atomically
func (s *JSONStore) Save(parts []types.Part) error {
	return writeJSONAtomic(s.path, parts)
}

func writeJSONAtomic(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
