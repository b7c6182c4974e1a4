package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/repository"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "seed.db")
	t.Setenv("SESSION_SECRET", "seed-secret")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	themes := writeFile(t, dir, "themeData.json", `[{"id": "1", "name": "Technic"}, {"id": 158, "name": "Star Wars"}]`)
	sets := writeFile(t, dir, "setData.json", `[
		{"set_num": "8880-1", "name": "Super Car", "year": "1994", "theme_id": "1", "num_parts": 1343, "img_url": ""},
		{"set_num": "7140-1", "name": "X-wing Fighter", "year": 1999, "theme_id": 158, "num_parts": "263", "img_url": ""}
	]`)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"seed", "--themes", themes, "--sets", sets})
	require.NoError(t, cmd.Execute())

	db, err := database.New(context.Background(), dbPath)
	require.NoError(t, err)
	defer db.Close()

	all, err := repository.NewSQLiteSetRepo(db.Conn).List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	set, err := repository.NewSQLiteSetRepo(db.Conn).GetByNum(context.Background(), "7140-1")
	require.NoError(t, err)
	assert.Equal(t, "Star Wars", set.Theme)
	assert.Equal(t, 263, set.NumParts)
}

func TestSeedCommand_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"seed", "--themes", "themes.json"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.Execute())
}

func TestSeedCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SESSION_SECRET", "seed-secret")
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "seed.db"))
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"seed", "--themes", filepath.Join(dir, "missing.json"), "--sets", filepath.Join(dir, "missing.json")})
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open themes file")
}
