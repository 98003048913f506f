package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/weightplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableExists reports whether a table is present in a SQLite database file.
func tableExists(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestMigrate_NoneBackend(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", LatestVersion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrate_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, LatestVersion))
	_, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.True(t, tableExists(t, dbPath, seriesTable))

	// Running again is a no-op
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, LatestVersion))

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
	assert.True(t, tableExists(t, dbPath, runsTable))
	assert.False(t, tableExists(t, dbPath, seriesTable))

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, tableExists(t, dbPath, runsTable))

	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 2))
	assert.True(t, tableExists(t, dbPath, seriesTable))
}

func TestMigrate_UnknownVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	err := Migrate(schema.SQLiteBackend, dbPath, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate to version 99")
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []string{"sqlite", "mysql", "postgresql"} {
		t.Run(backend, func(t *testing.T) {
			entries, err := migrationsFS.ReadDir("migrations/" + backend)
			require.NoError(t, err)
			assert.Len(t, entries, 4, "two up and two down files")
		})
	}
}
