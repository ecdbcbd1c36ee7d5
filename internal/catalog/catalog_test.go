package catalog

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/qfit/internal/monitoring"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleGranule(path string) Granule {
	return Granule{
		Path:         path,
		Variant:      "14-word",
		ByteOrder:    "big-endian",
		RecordCount:  100,
		FirstSeconds: 1.0,
		LastSeconds:  100.0,
		GranuleDate:  "2009-03-31",
		HeaderText:   "ATM QFIT test granule",
	}
}

func TestRecordAndFetchGranule(t *testing.T) {
	c := openTestCatalog(t)

	id, err := c.RecordGranule(sampleGranule("/data/a.qi"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	g, err := c.Granule("/data/a.qi")
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)
	assert.Equal(t, "14-word", g.Variant)
	assert.Equal(t, 100, g.RecordCount)
	assert.Equal(t, "2009-03-31", g.GranuleDate)
	assert.Positive(t, g.IngestedAt)
}

func TestRecordGranuleUpsertKeepsID(t *testing.T) {
	c := openTestCatalog(t)

	first, err := c.RecordGranule(sampleGranule("/data/a.qi"))
	require.NoError(t, err)

	updated := sampleGranule("/data/a.qi")
	updated.RecordCount = 250
	updated.SkippedCount = 3
	second, err := c.RecordGranule(updated)
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-ingest must keep the original id")

	g, err := c.Granule("/data/a.qi")
	require.NoError(t, err)
	assert.Equal(t, 250, g.RecordCount)
	assert.Equal(t, 3, g.SkippedCount)
}

func TestGranuleMissing(t *testing.T) {
	c := openTestCatalog(t)

	_, err := c.Granule("/data/absent.qi")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecentGranules(t *testing.T) {
	c := openTestCatalog(t)

	for _, path := range []string{"/data/a.qi", "/data/b.qi", "/data/c.qi"} {
		_, err := c.RecordGranule(sampleGranule(path))
		require.NoError(t, err)
	}

	recent, err := c.RecentGranules(2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	all, err := c.RecentGranules(10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
