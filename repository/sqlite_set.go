package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg"
)

type sqliteSetRepo struct {
	db database.TxQuerier
}

// NewSQLiteSetRepo returns a SetRepository backed by SQLite.
func NewSQLiteSetRepo(db database.TxQuerier) SetRepository {
	return &sqliteSetRepo{db: db}
}

const selectSets = `
	SELECT s.set_num, s.name, s.year, s.num_parts, s.theme_id, s.img_url, t.name, s.created_at, s.updated_at
	FROM sets s
	JOIN themes t ON t.id = s.theme_id`

func (r *sqliteSetRepo) List(ctx context.Context) ([]models.Set, error) {
	rows, err := r.db.QueryContext(ctx, selectSets+` ORDER BY s.set_num`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

func (r *sqliteSetRepo) ListByTheme(ctx context.Context, theme string) ([]models.Set, error) {
	// LIKE is case-insensitive for ASCII in SQLite; escape the pattern chars.
	query := selectSets + ` WHERE t.name LIKE '%' || ? || '%' ESCAPE '\' ORDER BY s.set_num`

	rows, err := r.db.QueryContext(ctx, query, escapeLike(theme))
	if err != nil {
		return nil, fmt.Errorf("failed to list sets by theme: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

func (r *sqliteSetRepo) GetByNum(ctx context.Context, setNum string) (*models.Set, error) {
	var s models.Set
	err := r.db.QueryRowContext(ctx, selectSets+` WHERE s.set_num = ?`, setNum).Scan(
		&s.SetNum, &s.Name, &s.Year, &s.NumParts, &s.ThemeID, &s.ImgURL, &s.Theme, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set: %w", err)
	}
	return &s, nil
}

func (r *sqliteSetRepo) Create(ctx context.Context, in *models.SetInput) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sets (set_num, name, year, num_parts, theme_id, img_url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.SetNum, in.Name, in.Year, in.NumParts, in.ThemeID, in.ImgURL,
	)
	if err != nil {
		return classifyWriteError("create set", err)
	}
	return nil
}

func (r *sqliteSetRepo) Update(ctx context.Context, in *models.SetInput) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sets
		SET name = ?, year = ?, num_parts = ?, theme_id = ?, img_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE set_num = ?`,
		in.Name, in.Year, in.NumParts, in.ThemeID, in.ImgURL, in.SetNum,
	)
	if err != nil {
		return classifyWriteError("update set", err)
	}
	return requireAffected(result)
}

func (r *sqliteSetRepo) Delete(ctx context.Context, setNum string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sets WHERE set_num = ?`, setNum)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	return requireAffected(result)
}

func (r *sqliteSetRepo) Upsert(ctx context.Context, in *models.SetInput) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sets (set_num, name, year, num_parts, theme_id, img_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(set_num) DO UPDATE SET
			name = excluded.name,
			year = excluded.year,
			num_parts = excluded.num_parts,
			theme_id = excluded.theme_id,
			img_url = excluded.img_url,
			updated_at = CURRENT_TIMESTAMP`,
		in.SetNum, in.Name, in.Year, in.NumParts, in.ThemeID, in.ImgURL,
	)
	if err != nil {
		return classifyWriteError("upsert set", err)
	}
	return nil
}

func scanSets(rows *sql.Rows) ([]models.Set, error) {
	var sets []models.Set
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(
			&s.SetNum, &s.Name, &s.Year, &s.NumParts, &s.ThemeID, &s.ImgURL, &s.Theme, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sets: %w", err)
	}
	return sets, nil
}

func classifyWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", pkg.ErrAlreadyExists, op, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s: unknown theme", pkg.ErrBadRequest, op)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
