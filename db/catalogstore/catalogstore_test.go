package catalogstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bike-config/core/catalog"
	"bike-config/core/rules"
	"bike-config/core/types"
	"bike-config/internal/config"
	"bike-config/internal/errors"
)

func fullCatalog() []types.Part {
	var parts []types.Part
	for _, k := range rules.AllKeys() {
		parts = append(parts, types.Part{
			Reference:       k,
			Component:       "Test",
			Name:            string(k),
			Price:           "10.00",
			Link:            "https://example.com/" + string(k),
			DateLastUpdated: "2026-09-01",
			UpToDate:        true,
		})
	}
	return parts
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "links.json")
	store := NewJSONStore(path)

	_, err := store.Load(context.Background())
	require.Error(t, err, "missing file")

	parts := fullCatalog()
	require.NoError(t, store.Save(parts))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, parts, loaded)
	assert.Equal(t, "json:"+path, store.Name())
}

func TestJSONStoreReadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.json")
	raw := `[{"component":"Frame","internalReference":"FrameGravel","name":"Gravel frame","price":"1,099.00","link":"https://example.com/g","dateLastUpdated":"2024-01-30","isUpToDate":false}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	parts, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, types.ReferenceKey("FrameGravel"), parts[0].Reference)
	assert.Equal(t, "1,099.00", parts[0].Price)
	assert.False(t, parts[0].UpToDate)
}

func TestJSONStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewJSONStore(path).Load(context.Background())
	assert.Error(t, err)

	l := catalog.Load(context.Background(), NewJSONStore(path))
	assert.True(t, errors.IsType(l.Unavailable(), errors.TypeCatalogUnavailable))
}

func TestSQLiteReplaceAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	assert.Equal(t, path, s.Path())

	empty, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)

	parts := []types.Part{
		{Reference: "BarsDrop", Name: "first", Price: "30", UpToDate: true},
		{Reference: "BarsDrop", Name: "second", Price: "20"},
		{Reference: "FrameGravel", Name: "frame", Price: "700"},
	}
	rec, err := s.Replace(context.Background(), "test", Checksum(parts), parts)
	require.NoError(t, err)
	assert.False(t, rec.Unchanged)
	assert.Equal(t, 3, rec.Parts)

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, parts, loaded)

	l := catalog.NewLookup(loaded)
	p, ok := l.Find("BarsDrop")
	require.True(t, ok)
	assert.Equal(t, "first", p.Name)
}

func TestSQLiteReplaceSkipsUnchanged(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { tick = tick.Add(time.Second); return tick }

	parts := fullCatalog()
	first, err := s.Replace(context.Background(), "a", Checksum(parts), parts)
	require.NoError(t, err)

	again, err := s.Replace(context.Background(), "a", Checksum(parts), parts)
	require.NoError(t, err)
	assert.True(t, again.Unchanged)
	assert.Equal(t, first.ID, again.ID)

	parts[0].Price = "11.00"
	changed, err := s.Replace(context.Background(), "b", Checksum(parts), parts)
	require.NoError(t, err)
	assert.False(t, changed.Unchanged)

	imports, err := s.Imports(context.Background())
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, changed.ID, imports[0].ID)
	assert.Equal(t, "b", imports[0].Source)
}

func TestImporter(t *testing.T) {
	dir := t.TempDir()
	src := NewJSONStore(filepath.Join(dir, "links.json"))
	parts := fullCatalog()
	parts[0].Reference = types.ReferenceKey("  " + string(parts[0].Reference) + " ")
	require.NoError(t, src.Save(parts))

	dest, err := OpenSQLite(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	defer func() { _ = dest.Close() }()

	res, err := NewImporter(dest, zap.NewNop(), false).Import(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.Report.OK())
	assert.Equal(t, len(rules.AllKeys()), res.Record.Parts)

	loaded, err := dest.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rules.AllKeys()[0], loaded[0].Reference)
}

func TestImporterRejectsIncompleteCatalog(t *testing.T) {
	dir := t.TempDir()
	src := catalog.NewMemoryStore(fullCatalog()[1:]...)
	dest, err := OpenSQLite(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	defer func() { _ = dest.Close() }()

	res, err := NewImporter(dest, nil, false).Import(context.Background(), src)
	require.Error(t, err)
	assert.Len(t, res.Report.Missing, 1)

	loaded, err := dest.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)

	res, err = NewImporter(dest, nil, true).Import(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, res.Report.Missing, 1)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, closeFn, err := Open(config.CatalogConfig{Backend: "json", Path: filepath.Join(dir, "links.json")})
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, store)
	assert.NoError(t, closeFn())

	store, closeFn, err = Open(config.CatalogConfig{Backend: "SQLite", Path: filepath.Join(dir, "catalog.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	assert.NoError(t, closeFn())

	_, _, err = Open(config.CatalogConfig{Backend: "postgres"})
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}
