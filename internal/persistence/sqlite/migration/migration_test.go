package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestScanner_OrdersAndDescribes(t *testing.T) {
	fsys := fstest.MapFS{
		"002_add_index.sql":      {Data: []byte("CREATE INDEX idx_a ON a(name);")},
		"001_create_table.sql":   {Data: []byte("-- Description: base table\nCREATE TABLE a (name TEXT);")},
		"README.md":              {Data: []byte("ignored")},
		"010_later_addition.sql": {Data: []byte("SELECT 1;")},
	}

	migrations, err := NewScanner(fsys, ".").Scan()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, "001", migrations[0].Version)
	assert.Equal(t, "base table", migrations[0].Description)
	assert.Equal(t, "add index", migrations[1].Description)
	assert.Equal(t, "010", migrations[2].Version)
	assert.Len(t, migrations[0].Checksum, 64)
	assert.NotEqual(t, migrations[0].Checksum, migrations[1].Checksum)
}

func TestScanner_RejectsBadFiles(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"bad name":  {"create.sql": {Data: []byte("SELECT 1;")}},
		"empty":     {"001_empty.sql": {Data: []byte("-- only a comment\n")}},
		"duplicate": {"001_a.sql": {Data: []byte("SELECT 1;")}, "1_b.sql": {Data: []byte("SELECT 2;")}},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewScanner(fsys, ".").Scan()
			require.Error(t, err)

			var migErr *Error
			assert.ErrorAs(t, err, &migErr)
		})
	}
}

func TestManager_RunAppliesPendingOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_create.sql": {Data: []byte(`
			CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
			CREATE TRIGGER things_name_required BEFORE INSERT ON things
			BEGIN
				SELECT CASE WHEN NEW.name = '' THEN RAISE(ABORT, 'empty name') END;
			END;
		`)},
		"002_seed.sql": {Data: []byte(`INSERT INTO things (name) VALUES ('first');`)},
	}

	manager := NewManager(NewScanner(fsys, "."), NewExecutor(db), nil)
	require.NoError(t, manager.Run(ctx))
	require.NoError(t, manager.Run(ctx))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM things`).Scan(&count))
	assert.Equal(t, 1, count)

	_, err := db.Exec(`INSERT INTO things (name) VALUES ('')`)
	assert.ErrorContains(t, err, "empty name")

	status, err := manager.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "002", status.CurrentVersion)
	assert.Len(t, status.Applied, 2)
	assert.Empty(t, status.Pending)
}

func TestManager_FailedMigrationLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte(`CREATE TABLE ok (id INTEGER);`)},
		"002_broken.sql": {Data: []byte(`CREATE TABLE half (id INTEGER); THIS IS NOT SQL;`)},
	}

	err := NewManager(NewScanner(fsys, "."), NewExecutor(db), nil).Run(ctx)
	require.ErrorIs(t, err, ErrMigrationFailed)

	applied, err := NewExecutor(db).IsApplied(ctx, "002")
	require.NoError(t, err)
	assert.False(t, applied)

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'half'`).Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestManager_DetectsGapsAndEdits(t *testing.T) {
	ctx := context.Background()

	t.Run("gap", func(t *testing.T) {
		fsys := fstest.MapFS{
			"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
			"003_c.sql": {Data: []byte(`CREATE TABLE c (id INTEGER);`)},
		}
		err := NewManager(NewScanner(fsys, "."), NewExecutor(openTestDB(t)), nil).Run(ctx)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("edited after apply", func(t *testing.T) {
		db := openTestDB(t)
		first := fstest.MapFS{"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER);`)}}
		require.NoError(t, NewManager(NewScanner(first, "."), NewExecutor(db), nil).Run(ctx))

		edited := fstest.MapFS{"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER, extra TEXT);`)}}
		err := NewManager(NewScanner(edited, "."), NewExecutor(db), nil).Run(ctx)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("file removed after apply", func(t *testing.T) {
		db := openTestDB(t)
		two := fstest.MapFS{
			"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
			"002_b.sql": {Data: []byte(`CREATE TABLE b (id INTEGER);`)},
		}
		require.NoError(t, NewManager(NewScanner(two, "."), NewExecutor(db), nil).Run(ctx))

		one := fstest.MapFS{"001_a.sql": two["001_a.sql"]}
		err := NewManager(NewScanner(one, "."), NewExecutor(db), nil).Run(ctx)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})
}
