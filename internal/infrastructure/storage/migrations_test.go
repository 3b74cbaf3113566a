package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_RunOnFreshDatabase(t *testing.T) {
	store := newTestStorage(t)

	applied, err := store.getAppliedMigrations()
	require.NoError(t, err)

	for _, m := range allMigrations {
		assert.True(t, applied[m.Version], "migration %d (%s) should be applied", m.Version, m.Name)
	}
}

func TestMigrations_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrations again; already-applied versions are
	// skipped without error
	store, err = NewStorage(dbPath)
	require.NoError(t, err)
	defer store.Close()

	var count int
	err = store.db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(allMigrations), count)
}

func TestMigrations_TablesExist(t *testing.T) {
	store := newTestStorage(t)

	tables := []string{"users", "properties", "transactions", "notification_log", "check_runs"}
	for _, table := range tables {
		var name string
		err := store.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}
