package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-config/core/types"
	"bike-config/internal/errors"
)

func samples() []types.Part {
	return []types.Part{
		{Reference: "FrameRoadRim", Component: "Frame", Name: "Road frame", Price: "499.99", Link: "https://example.com/frame", UpToDate: true},
		{Reference: "BarsDrop", Component: "HandleBars", Name: "Drop bars", Price: "35.00", Link: "https://example.com/bars", UpToDate: true},
		{Reference: "BarsDrop", Component: "HandleBars", Name: "Older drop bars", Price: "29.00"},
		{Reference: "Chain_10", Component: "Chain", Name: "10 speed chain", Price: "", Link: "ftp://example.com/chain"},
	}
}

func TestLookupFirstMatchWins(t *testing.T) {
	l := NewLookup(samples())

	p, ok := l.Find("BarsDrop")
	require.True(t, ok)
	assert.Equal(t, "Drop bars", p.Name)

	_, ok = l.Find("Cassette_10")
	assert.False(t, ok)
	assert.NoError(t, l.Unavailable())
	assert.Equal(t, 4, l.Len())
}

func TestLookupReturnsCopies(t *testing.T) {
	store := NewMemoryStore(samples()...)
	l := Load(context.Background(), store)

	p, ok := l.Find("FrameRoadRim")
	require.True(t, ok)
	p.Price = "0"

	again, _ := l.Find("FrameRoadRim")
	assert.Equal(t, "499.99", again.Price)
}

func TestLoadUnavailable(t *testing.T) {
	store := NewMemoryStore(samples()...)
	store.FailWith(fmt.Errorf("disk gone"))

	l := Load(context.Background(), store)
	err := l.Unavailable()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCatalogUnavailable))
	assert.Contains(t, err.Error(), "disk gone")

	_, ok := l.Find("FrameRoadRim")
	assert.False(t, ok, "every key misses on an unavailable catalog")

	store.FailWith(nil)
	assert.NoError(t, Load(context.Background(), store).Unavailable())
}

func TestLoadNilStore(t *testing.T) {
	l := Load(context.Background(), nil)
	assert.True(t, errors.IsType(l.Unavailable(), errors.TypeCatalogUnavailable))
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := Load(ctx, NewMemoryStore(samples()...))
	assert.Error(t, l.Unavailable())
}

func TestConcurrentFind(t *testing.T) {
	l := NewLookup(samples())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := l.Find("FrameRoadRim")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestMemoryStorePutRemove(t *testing.T) {
	store := NewMemoryStore(samples()...)
	store.Put(types.Part{Reference: "FrameRoadRim", Name: "New frame", Price: "549.00"})
	store.Put(types.Part{Reference: "Cassette_10", Name: "Cassette", Price: "40"})
	store.Remove("BarsDrop")

	parts, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.ReferenceKey{"Cassette_10", "Chain_10", "FrameRoadRim"}, References(parts))

	l := NewLookup(parts)
	p, _ := l.Find("FrameRoadRim")
	assert.Equal(t, "New frame", p.Name)
}

func TestStats(t *testing.T) {
	s := NewLookup(samples()).Stats()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Stale)
	assert.Equal(t, 1, s.Unpriced)
	assert.Equal(t, 2, s.ByComponent["HandleBars"])
}

func TestValidate(t *testing.T) {
	parts := append(samples(), types.Part{Reference: "Broken", Price: "1.2.3", UpToDate: true})
	required := []types.ReferenceKey{"FrameRoadRim", "BarsDrop", "Cassette_10", "Chain_10"}

	r := Validate(parts, required, DefaultPartRules())
	assert.False(t, r.OK())
	assert.Equal(t, 5, r.Entries)
	assert.Equal(t, []types.ReferenceKey{"Cassette_10"}, r.Missing)
	assert.Equal(t, []types.ReferenceKey{"BarsDrop"}, r.Duplicates)
	assert.Equal(t, []types.ReferenceKey{"Broken"}, r.Unused)
	assert.Equal(t, []types.ReferenceKey{"Chain_10"}, r.Stale)
	assert.Len(t, r.Problems, 2)
}

func TestValidateClean(t *testing.T) {
	parts := samples()[:2]
	r := Validate(parts, []types.ReferenceKey{"FrameRoadRim", "BarsDrop"}, DefaultPartRules())
	assert.True(t, r.OK())
	assert.Empty(t, r.Unused)
}
