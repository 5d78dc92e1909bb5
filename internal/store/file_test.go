package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte(`[{"id":"lead-1"}]`)

	require.NoError(t, fs.Set(ctx, CollectionLeads, payload))

	got, err := fs.Get(ctx, CollectionLeads)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileStoreMissingCollection(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	got, err := fs.Get(context.Background(), CollectionInteractions)
	require.NoError(t, err, "a never-written collection is not an error")
	assert.Nil(t, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, CollectionSettings, []byte(`{"v":1}`)))
	require.NoError(t, fs.Set(ctx, CollectionSettings, []byte(`{"v":2}`)))

	got, err := fs.Get(ctx, CollectionSettings)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), got)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set(context.Background(), CollectionLeads, []byte(`[]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "leads.json", entries[0].Name())
}
