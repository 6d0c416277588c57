// Package catalog resolves reference keys against the parts catalog.
// The catalog is loaded once per resolution and only read afterwards.
package catalog

import (
	"context"
	"sort"
	"sync"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

// Store is a source of catalog parts
type Store interface {
	// Load returns the whole catalog in storage order
	Load(ctx context.Context) ([]types.Part, error)

	// Name identifies the store in errors and logs
	Name() string
}

// Lookup is a loaded catalog. It is safe for concurrent reads.
type Lookup struct {
	store string
	parts []types.Part
	first map[types.ReferenceKey]int
	err   error
}

// Load reads the store once. A failed load still returns a usable Lookup
// on which every Find misses; the failure is kept in Unavailable.
func Load(ctx context.Context, store Store) *Lookup {
	if store == nil {
		return &Lookup{store: "none", err: errors.CatalogUnavailable("none", errors.New(errors.TypeConfig, "no catalog store configured"))}
	}
	parts, err := store.Load(ctx)
	if err != nil {
		return &Lookup{store: store.Name(), err: errors.CatalogUnavailable(store.Name(), err)}
	}
	l := NewLookup(parts)
	l.store = store.Name()
	return l
}

// NewLookup indexes parts. When a reference appears more than once the
// first entry wins.
func NewLookup(parts []types.Part) *Lookup {
	l := &Lookup{
		store: "memory",
		parts: parts,
		first: make(map[types.ReferenceKey]int, len(parts)),
	}
	for i, p := range parts {
		if _, seen := l.first[p.Reference]; !seen {
			l.first[p.Reference] = i
		}
	}
	return l
}

// Find returns a copy of the first part with the given reference
func (l *Lookup) Find(key types.ReferenceKey) (types.Part, bool) {
	if l.err != nil {
		return types.Part{}, false
	}
	i, ok := l.first[key]
	if !ok {
		return types.Part{}, false
	}
	return l.parts[i], true
}

// Unavailable returns the load failure, or nil
func (l *Lookup) Unavailable() error {
	return l.err
}

// Store returns the name of the store the lookup was loaded from
func (l *Lookup) Store() string {
	return l.store
}

// Len returns the number of catalog entries, duplicates included
func (l *Lookup) Len() int {
	return len(l.parts)
}

// Stats summarizes a catalog
type Stats struct {
	Total       int            `json:"total"`
	Stale       int            `json:"stale"`
	Unpriced    int            `json:"unpriced"`
	ByComponent map[string]int `json:"by_component"`
}

// Stats counts the loaded parts
func (l *Lookup) Stats() Stats {
	stats := Stats{ByComponent: make(map[string]int)}
	for _, p := range l.parts {
		stats.Total++
		if !p.UpToDate {
			stats.Stale++
		}
		if p.Price == "" {
			stats.Unpriced++
		}
		stats.ByComponent[p.Component]++
	}
	return stats
}

// MemoryStore keeps a catalog in memory
type MemoryStore struct {
	mu    sync.RWMutex
	name  string
	parts []types.Part
	err   error
}

// NewMemoryStore creates a store holding parts
func NewMemoryStore(parts ...types.Part) *MemoryStore {
	return &MemoryStore{name: "memory", parts: append([]types.Part(nil), parts...)}
}

// Name implements Store
func (s *MemoryStore) Name() string {
	return s.name
}

// Load implements Store
func (s *MemoryStore) Load(ctx context.Context) ([]types.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]types.Part(nil), s.parts...), nil
}

// Put adds or replaces parts by reference
func (s *MemoryStore) Put(parts ...types.Part) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parts {
		replaced := false
		for i := range s.parts {
			if s.parts[i].Reference == p.Reference {
				s.parts[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			s.parts = append(s.parts, p)
		}
	}
}

// Remove deletes every entry with one of the given references
func (s *MemoryStore) Remove(keys ...types.ReferenceKey) {
	drop := make(map[types.ReferenceKey]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.parts[:0]
	for _, p := range s.parts {
		if !drop[p.Reference] {
			kept = append(kept, p)
		}
	}
	s.parts = kept
}

// FailWith makes every Load return err until called again with nil
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// References returns the sorted distinct references in parts
func References(parts []types.Part) []types.ReferenceKey {
	seen := make(map[types.ReferenceKey]bool, len(parts))
	var out []types.ReferenceKey
	for _, p := range parts {
		if !seen[p.Reference] {
			seen[p.Reference] = true
			out = append(out, p.Reference)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
