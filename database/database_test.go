package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_AppliesMigrations(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"themes", "sets", "users", "login_history"} {
		var n int
		err := db.Conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestNew_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db1, err := New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db2.Close())
}

func TestNew_ForeignKeysEnforced(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Conn.Exec(`INSERT INTO sets (set_num, name, theme_id) VALUES ('1-1', 'Orphan', 999)`)
	assert.Error(t, err)
}

func TestNew_MigrationFailure(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(ctx context.Context, conn *sql.DB, dir string) error {
		return errors.New("bad migration")
	}

	_, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	assert.ErrorContains(t, err, "bad migration")
}

func TestWithTx(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO themes (id, name) VALUES (1, 'Technic')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO themes (id, name) VALUES (2, 'City')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO themes (id, name) VALUES (3, 'Space')`)
			panic("kaboom")
		})
	})

	var n int
	require.NoError(t, db.Conn.QueryRow(`SELECT COUNT(*) FROM themes`).Scan(&n))
	assert.Equal(t, 1, n)
}
