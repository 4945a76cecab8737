package mbtilestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchemaAndWritesTile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.mbtiles")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.WriteTile(3, 1, 2, []byte("tile-bytes")))
	require.NoError(t, store.WriteMetadata("name", "test-tileset"))
}

func TestWriteTileDuplicateKeyFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.mbtiles")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.WriteTile(1, 0, 0, []byte("a")))
	err = store.WriteTile(1, 0, 0, []byte("b"))
	assert.Error(t, err)
}

func TestWriteMetadataUpsertsExistingKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.mbtiles")

	store, err := Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.WriteMetadata("minzoom", "0"))
	require.NoError(t, store.WriteMetadata("minzoom", "1"))
}
