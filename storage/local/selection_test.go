package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findgreatschool/core/compare"
)

func TestSelectionStorage_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	storage, err := Open(path)
	require.NoError(t, err)

	ids, err := storage.Load(compare.StorageKey)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, storage.Save(compare.StorageKey, []string{"b", "a"}))
	require.NoError(t, storage.Save(compare.StorageKey, []string{"b", "a", "c"}))
	require.NoError(t, storage.Close())

	// survives a restart
	storage, err = Open(path)
	require.NoError(t, err)
	defer storage.Close()

	ids, err = storage.Load(compare.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestSelectionStorage_corruptPayload(t *testing.T) {
	storage, err := Open(":memory:")
	require.NoError(t, err)
	defer storage.Close()

	_, err = storage.db.Exec(`INSERT INTO state (key, payload) VALUES (?, ?)`, compare.StorageKey, []byte("{not json"))
	require.NoError(t, err)

	ids, err := storage.Load(compare.StorageKey)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSelectionStorage_backsStore(t *testing.T) {
	storage, err := Open(":memory:")
	require.NoError(t, err)
	defer storage.Close()

	store, err := compare.NewStore(storage)
	require.NoError(t, err)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, store.Add(id))
	}
	assert.Equal(t, compare.ErrCapacityExceeded, store.Add("6"))
	require.NoError(t, store.Remove("2"))

	reloaded, err := compare.NewStore(storage)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4", "5"}, reloaded.Items())
}
