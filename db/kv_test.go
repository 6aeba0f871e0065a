package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/config"
)

func openStores(t *testing.T) map[string]KV {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"sqlite": sqlite,
		"memory": NewMemoryKV(),
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := kv.Get("reactvid_missing")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestKV_SetOverwrites(t *testing.T) {
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("reactvid_abc", `[1]`))
			require.NoError(t, kv.Set("reactvid_abc", `[1,2]`))

			v, ok, err := kv.Get("reactvid_abc")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[1,2]`, v)
		})
	}
}

func TestKV_Delete(t *testing.T) {
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("reactvid_abc", `[]`))
			require.NoError(t, kv.Delete("reactvid_abc"))
			require.NoError(t, kv.Delete("reactvid_abc"))

			_, ok, err := kv.Get("reactvid_abc")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKV_KeysMatchesPrefixLiterally(t *testing.T) {
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Set("reactvid_transcript_a", `[]`))
			require.NoError(t, kv.Set("reactvid_a", `[]`))
			require.NoError(t, kv.Set("reactvidXtranscript_b", `[]`))

			keys, err := kv.Keys("reactvid_transcript_")
			require.NoError(t, err)
			assert.Equal(t, []string{"reactvid_transcript_a"}, keys)
		})
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("reactvid_vid", `[{"text":"hi"}]`))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	v, ok, err := kv.Get("reactvid_vid")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"text":"hi"}]`, v)
}

func TestMigrations_RecordedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	first, err := Open(path)
	require.NoError(t, err)
	first.Close()

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPendingVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/002_b.sql":  {Data: []byte("SELECT 2;")},
		"sql/migrations/001_a.sql":  {Data: []byte("SELECT 1;")},
		"sql/migrations/010_c.sql":  {Data: []byte("SELECT 10;")},
		"sql/migrations/notes.sql":  {Data: []byte("-- ignored")},
		"sql/migrations/README.txt": {Data: []byte("ignored")},
	}

	all, err := pendingVersions(fsys, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{all[0].number, all[1].number, all[2].number})

	rest, err := pendingVersions(fsys, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "sql/migrations/010_c.sql", rest[0].file)
}

func TestSQLiteKV_ErrorsAreStoreErrors(t *testing.T) {
	database, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "bare.db"))
	require.NoError(t, err)
	defer database.Close()

	// No migrations: the kv table does not exist.
	kv := NewSQLiteKV(database)
	err = kv.Set("k", "v")

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "set", storeErr.Op)
	assert.Equal(t, "k", storeErr.Key)
}

func TestMemoryKV_Closed(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Close())

	_, _, err := kv.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory
	kv, err := OpenFromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	cfg.Storage.Backend = config.BackendSQLite
	cfg.DataDir = t.TempDir()
	kv, err = OpenFromConfig(cfg)
	require.NoError(t, err)
	defer kv.Close()
	assert.IsType(t, &SQLiteKV{}, kv)

	cfg.Storage.Backend = "etcd"
	_, err = OpenFromConfig(cfg)
	assert.Error(t, err)
}
