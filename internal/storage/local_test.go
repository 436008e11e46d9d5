package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalFetcher, string) {
	t.Helper()
	base := t.TempDir()
	f, err := NewLocalFetcher(base)
	require.NoError(t, err)
	return f, base
}

func TestLocalFetcher_Fetch(t *testing.T) {
	f, base := newLocal(t)
	obj := "ds001/sub-01/sub-01_task-x_events.tsv"
	require.NoError(t, os.MkdirAll(filepath.Join(base, "ds001", "sub-01"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, filepath.FromSlash(obj)), []byte("onset\n1.0\n"), 0644))

	dest := filepath.Join(t.TempDir(), "cache", "events.tsv")
	require.NoError(t, f.Fetch(context.Background(), obj, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "onset\n1.0\n", string(data))
}

func TestLocalFetcher_FetchMissing(t *testing.T) {
	f, _ := newLocal(t)
	err := f.Fetch(context.Background(), "absent.tsv", filepath.Join(t.TempDir(), "out.tsv"))
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalFetcher_Exists(t *testing.T) {
	f, base := newLocal(t)
	require.NoError(t, os.WriteFile(filepath.Join(base, "a.tsv"), []byte("x"), 0644))

	ok, err := f.Exists(context.Background(), "a.tsv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Exists(context.Background(), "b.tsv")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalFetcher_List(t *testing.T) {
	f, base := newLocal(t)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "ds001", "sub-01"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "ds001", "sub-01", "a.tsv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "ds001", "b.json"), []byte("{}"), 0644))

	objects, err := f.List(context.Background(), "ds001")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ds001/sub-01/a.tsv", "ds001/b.json"}, objects)

	empty, err := f.List(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
