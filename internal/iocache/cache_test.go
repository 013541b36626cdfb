package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals restores the package level once guards for a fresh test.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(CloseCaching)
}

func TestCaching(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetRunStore())

		CloseCaching()
		_, err := os.Stat(dbPath)
		assert.False(t, os.IsNotExist(err), "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		assert.NoError(t, InitCaching(schema.SQLiteBackend, dbPath))
		first := Manager.GetRunStore()
		assert.NoError(t, InitCaching(schema.SQLiteBackend, dbPath))
		assert.Same(t, first, Manager.GetRunStore())

		CloseCaching()
		CloseCaching()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals(t)

		require.NoError(t, InitCaching(schema.NoneBackend, ""))
		store := Manager.GetRunStore()
		require.NotNil(t, store)

		_, _, _, err := store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Set("key", []byte("value"), 1, 1))
		_, _, _, err = store.Get("key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals(t)

		err := InitCaching(schema.DatabaseBackend("redis"), "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetRunStore())
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"simple", "workflow_runs_cache", false},
		{"numbers", "runs_123", false},
		{"leading underscore", "_runs", false},
		{"mixed case", "RunsCache", false},
		{"empty", "", true},
		{"leading digit", "1runs", true},
		{"dash", "runs-cache", true},
		{"space", "runs cache", true},
		{"dot", "main.runs", true},
		{"injection", "runs'; DROP TABLE users; --", true},
		{"unicode", "runs_表", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.NoneBackend))
}

func TestGetPlaceholder(t *testing.T) {
	assert.Equal(t, "?", (&CacheStoreImpl{backend: schema.SQLiteBackend}).getPlaceholder(1))
	assert.Equal(t, "?", (&CacheStoreImpl{backend: schema.MySQLBackend}).getPlaceholder(2))
	assert.Equal(t, "$1", (&CacheStoreImpl{backend: schema.PostgreSQLBackend}).getPlaceholder(1))
	assert.Equal(t, "$3", (&CacheStoreImpl{backend: schema.PostgreSQLBackend}).getPlaceholder(3))
}

func TestGetUpsertQuery(t *testing.T) {
	assert.Contains(t, (&CacheStoreImpl{tableName: "runs", backend: schema.SQLiteBackend}).getUpsertQuery(), "INSERT OR REPLACE")
	assert.Contains(t, (&CacheStoreImpl{tableName: "runs", backend: schema.MySQLBackend}).getUpsertQuery(), "ON DUPLICATE KEY UPDATE")
	assert.Contains(t, (&CacheStoreImpl{tableName: "runs", backend: schema.PostgreSQLBackend}).getUpsertQuery(), "ON CONFLICT (cache_key)")
}

func TestSQLiteStore(t *testing.T) {
	newStore := func(t *testing.T) *CacheStoreImpl {
		t.Helper()
		store, err := NewCacheStore(runsTable, schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store.(*CacheStoreImpl)
	}

	t.Run("set and get", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set("key", []byte(`[{"id":1}]`), 3, 1700000000))
		value, version, ts, err := store.Get("key")

		require.NoError(t, err)
		assert.Equal(t, `[{"id":1}]`, string(value))
		assert.Equal(t, 3, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Set("key", []byte("old"), 1, 1000))
		require.NoError(t, store.Set("key", []byte("new"), 2, 2000))
		value, version, ts, err := store.Get("key")

		require.NoError(t, err)
		assert.Equal(t, "new", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		store := newStore(t)

		_, _, _, err := store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("prune removes old entries", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set("old", []byte("a"), 1, 100))
		require.NoError(t, store.Set("older", []byte("b"), 1, 50))
		require.NoError(t, store.Set("fresh", []byte("c"), 1, 500))

		removed, err := store.Prune(200)

		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)
		_, _, _, err = store.Get("fresh")
		assert.NoError(t, err)
		_, _, _, err = store.Get("old")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("status", func(t *testing.T) {
		store := newStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Zero(t, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("x"), 1, 1000))
		require.NoError(t, store.Set("b", []byte("y"), 1, 3000))
		status, err = store.GetStatus()

		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(3000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})
}

func TestNoneStoreStatus(t *testing.T) {
	store, err := NewCacheStore(runsTable, schema.NoneBackend, "")
	require.NoError(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	removed, err := store.Prune(time.Now().Unix())
	assert.NoError(t, err)
	assert.Zero(t, removed)
	assert.NoError(t, store.Close())
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(runsTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.SQLiteBackend, filepath.Join(t.TempDir(), "absent.db"), ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unknown backend", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.DatabaseBackend("redis"), "", ""))
	})
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    2,
		LastEntryTime:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local),
		OldestEntryTime: time.Date(2024, 2, 28, 8, 30, 0, 0, time.Local),
		TableSizeBytes:  4096,
	})

	out := buf.String()
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Total Entries: 2")
	assert.Contains(t, out, "Last Entry: 2024-03-01 12:00:00")
	assert.Contains(t, out, "Oldest Entry: 2024-02-28 08:30:00")
	assert.Contains(t, out, "Table Size: 4096 bytes")

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.NotContains(t, buf.String(), "Total Entries")
}
