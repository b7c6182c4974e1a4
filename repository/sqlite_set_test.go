package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
)

func newSetFixture(t *testing.T) (SetRepository, ThemeRepository) {
	t.Helper()
	db := newTestDB(t)
	themes := NewSQLiteThemeRepo(db.Conn)
	seedThemes(t, themes,
		models.Theme{ID: 1, Name: "Technic"},
		models.Theme{ID: 2, Name: "Star Wars"},
		models.Theme{ID: 3, Name: "100% Fun"},
	)
	return NewSQLiteSetRepo(db.Conn), themes
}

func TestSQLiteSetRepo_CRUD(t *testing.T) {
	repo, _ := newSetFixture(t)
	ctx := context.Background()

	in := &models.SetInput{SetNum: "42100-1", Name: "Liebherr R 9800", Year: 2019, NumParts: 4108, ThemeID: 1, ImgURL: "https://example.com/42100.jpg"}
	require.NoError(t, repo.Create(ctx, in))

	got, err := repo.GetByNum(ctx, "42100-1")
	require.NoError(t, err)
	assert.Equal(t, "Liebherr R 9800", got.Name)
	assert.Equal(t, 2019, got.Year)
	assert.Equal(t, 4108, got.NumParts)
	assert.Equal(t, "Technic", got.Theme)

	in.Name = "Liebherr"
	in.ThemeID = 2
	require.NoError(t, repo.Update(ctx, in))

	got, err = repo.GetByNum(ctx, "42100-1")
	require.NoError(t, err)
	assert.Equal(t, "Liebherr", got.Name)
	assert.Equal(t, "Star Wars", got.Theme)

	require.NoError(t, repo.Delete(ctx, "42100-1"))
	_, err = repo.GetByNum(ctx, "42100-1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSQLiteSetRepo_WriteErrors(t *testing.T) {
	repo, _ := newSetFixture(t)
	ctx := context.Background()

	in := &models.SetInput{SetNum: "1-1", Name: "A", ThemeID: 1}
	require.NoError(t, repo.Create(ctx, in))

	assert.ErrorIs(t, repo.Create(ctx, in), pkg.ErrAlreadyExists)
	assert.ErrorIs(t, repo.Create(ctx, &models.SetInput{SetNum: "2-1", Name: "B", ThemeID: 99}), pkg.ErrBadRequest)
	assert.ErrorIs(t, repo.Update(ctx, &models.SetInput{SetNum: "missing", Name: "C", ThemeID: 1}), pkg.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), pkg.ErrNotFound)
}

func TestSQLiteSetRepo_ListByTheme(t *testing.T) {
	repo, _ := newSetFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.SetInput{SetNum: "1-1", Name: "Crane", ThemeID: 1}))
	require.NoError(t, repo.Create(ctx, &models.SetInput{SetNum: "2-1", Name: "X-Wing", ThemeID: 2}))
	require.NoError(t, repo.Create(ctx, &models.SetInput{SetNum: "3-1", Name: "Fun", ThemeID: 3}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	wars, err := repo.ListByTheme(ctx, "star")
	require.NoError(t, err)
	require.Len(t, wars, 1)
	assert.Equal(t, "2-1", wars[0].SetNum)

	// '%' is matched literally, not as a wildcard.
	pct, err := repo.ListByTheme(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, pct, 1)
	assert.Equal(t, "3-1", pct[0].SetNum)

	none, err := repo.ListByTheme(ctx, "City")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteSetRepo_Upsert(t *testing.T) {
	repo, _ := newSetFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.SetInput{SetNum: "1-1", Name: "First", ThemeID: 1}))
	require.NoError(t, repo.Upsert(ctx, &models.SetInput{SetNum: "1-1", Name: "Second", ThemeID: 2}))

	got, err := repo.GetByNum(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Name)
	assert.Equal(t, 2, got.ThemeID)
}

func TestSQLiteSetRepo_ListQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT s.set_num").WillReturnError(errors.New("disk I/O error"))

	_, err = NewSQLiteSetRepo(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list sets")
	assert.Equal(t, pkg.KindInternal, pkg.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
