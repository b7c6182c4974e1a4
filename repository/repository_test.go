package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedThemes(t *testing.T, repo ThemeRepository, themes ...models.Theme) {
	t.Helper()
	for _, th := range themes {
		require.NoError(t, repo.Upsert(context.Background(), th))
	}
}
