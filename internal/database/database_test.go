package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"records", "ranking_snapshots", "match_events", "activity_counters"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/cricket.db"

	db, teardown, err := InitDB(path, "", "", "../../migrations")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records (collection, id, version, body, created_at, updated_at) VALUES ('teams', 't1', 1, '{}', 0, 0)`)
	require.NoError(t, err)
	teardown()

	db, teardown, err = InitDB(path, "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count))
	assert.Equal(t, 1, count, "re-running migrations must keep existing rows")
}

func TestInitDB_BadMigrationsDir(t *testing.T) {
	_, _, err := InitDB(":memory:", "", "", "./does-not-exist")
	assert.Error(t, err)
}
