package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurotab/neurotab/pkg/types"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleRecord() *FileRecord {
	return &FileRecord{
		Root:        "/data/ds001",
		RelPath:     "sub-01/nirs/sub-01_task-tapping_events.tsv",
		Kind:        "tabular",
		Task:        "tapping",
		RowCount:    12,
		ColumnCount: 3,
		Fingerprint: "aaaa",
		Annotations: map[string]types.Annotations{
			"onset": {"Description": "Event onset", "Units": "s"},
		},
	}
}

func TestCatalog_RegisterAndGet(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.RegisterFile(ctx, sampleRecord()))

	got, err := c.GetFile(ctx, "/data/ds001", "sub-01/nirs/sub-01_task-tapping_events.tsv")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tapping", got.Task)
	assert.Equal(t, int64(12), got.RowCount)
	assert.Equal(t, "Event onset", got.Annotations["onset"]["Description"])
	assert.False(t, got.IndexedAt.IsZero())
}

func TestCatalog_GetMissingIsNil(t *testing.T) {
	c := openCatalog(t)

	got, err := c.GetFile(context.Background(), "/data/ds001", "absent.tsv")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalog_RegisterUnchangedFingerprintIsIdempotent(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	first := sampleRecord()
	first.IndexedAt = time.Unix(1000, 0)
	require.NoError(t, c.RegisterFile(ctx, first))

	second := sampleRecord()
	second.IndexedAt = time.Unix(2000, 0)
	second.RowCount = 99 // Ignored: same fingerprint means no update.
	require.NoError(t, c.RegisterFile(ctx, second))

	got, err := c.GetFile(ctx, first.Root, first.RelPath)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.RowCount)
	assert.Equal(t, time.Unix(1000, 0), got.IndexedAt)
}

func TestCatalog_RegisterChangedFingerprintUpdates(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.RegisterFile(ctx, sampleRecord()))

	changed := sampleRecord()
	changed.Fingerprint = "bbbb"
	changed.RowCount = 20
	require.NoError(t, c.RegisterFile(ctx, changed))

	got, err := c.GetFile(ctx, changed.Root, changed.RelPath)
	require.NoError(t, err)
	assert.Equal(t, "bbbb", got.Fingerprint)
	assert.Equal(t, int64(20), got.RowCount)
}

func TestCatalog_FindByTask(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	a := sampleRecord()
	b := sampleRecord()
	b.RelPath = "sub-02/nirs/sub-02_task-tapping_events.tsv"
	b.Fingerprint = "cccc"
	other := sampleRecord()
	other.RelPath = "sub-01/eeg/sub-01_task-resting_events.tsv"
	other.Task = "resting"
	other.Fingerprint = "dddd"

	for _, rec := range []*FileRecord{a, b, other} {
		require.NoError(t, c.RegisterFile(ctx, rec))
	}

	found, err := c.FindByTask(ctx, "tapping")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, a.RelPath, found[0].RelPath)
	assert.Equal(t, b.RelPath, found[1].RelPath)
}

func TestCatalog_ListFiles(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	rec := sampleRecord()
	rec.Annotations = nil
	require.NoError(t, c.RegisterFile(ctx, rec))

	files, err := c.ListFiles(ctx, rec.Root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Nil(t, files[0].Annotations)

	none, err := c.ListFiles(ctx, "/data/other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_ScanLifecycle(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.BeginScan(ctx, "scan-1", "/data/ds001"))
	require.NoError(t, c.FinishScan(ctx, "scan-1", 10, 8, 2))

	var seen, indexed, failed int64
	row := c.readDB.QueryRow(`SELECT files_seen, files_indexed, files_failed FROM scans WHERE scan_id = ?`, "scan-1")
	require.NoError(t, row.Scan(&seen, &indexed, &failed))
	assert.Equal(t, int64(10), seen)
	assert.Equal(t, int64(8), indexed)
	assert.Equal(t, int64(2), failed)
}
