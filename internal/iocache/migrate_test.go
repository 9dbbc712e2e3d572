package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/readiness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")
	var buf bytes.Buffer

	// Run migration to latest version (should go to version 1)
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1, &buf))
	assert.Contains(t, buf.String(), "Successfully migrated from version 0 to version 1")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	buf.Reset()
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1, &buf))
	assert.Contains(t, buf.String(), "No migration needed")

	// Rollback to version 0
	buf.Reset()
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0, &buf))
	assert.Contains(t, buf.String(), "rolled back")

	// Migrate back up to version 1
	buf.Reset()
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1, &buf))
	assert.Contains(t, buf.String(), "to version 1")

	// The store opens cleanly on a migrated database
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestMigrationsDir(t *testing.T) {
	assert.Equal(t, "migrations/sqlite", migrationsDir(schema.SQLiteBackend))
	assert.Equal(t, "migrations/sqlite", migrationsDir(schema.NoneBackend))
	assert.Equal(t, "migrations/mysql", migrationsDir(schema.MySQLBackend))
	assert.Equal(t, "migrations/postgresql", migrationsDir(schema.PostgreSQLBackend))

	for _, dir := range []string{"migrations/sqlite", "migrations/mysql", "migrations/postgresql"} {
		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2, dir)
	}
}
