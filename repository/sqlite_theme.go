package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
)

type sqliteThemeRepo struct {
	db database.TxQuerier
}

// NewSQLiteThemeRepo returns a ThemeRepository backed by SQLite.
func NewSQLiteThemeRepo(db database.TxQuerier) ThemeRepository {
	return &sqliteThemeRepo{db: db}
}

func (r *sqliteThemeRepo) List(ctx context.Context) ([]models.Theme, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM themes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	defer rows.Close()

	var themes []models.Theme
	for rows.Next() {
		var t models.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate themes: %w", err)
	}
	return themes, nil
}

func (r *sqliteThemeRepo) Upsert(ctx context.Context, theme models.Theme) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO themes (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		theme.ID, theme.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert theme: %w", err)
	}
	return nil
}
