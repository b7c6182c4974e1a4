package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
)

type sqliteLoginHistoryRepo struct {
	db database.TxQuerier
}

// NewSQLiteLoginHistoryRepo returns a LoginHistoryRepository backed by SQLite.
func NewSQLiteLoginHistoryRepo(db database.TxQuerier) LoginHistoryRepository {
	return &sqliteLoginHistoryRepo{db: db}
}

func (r *sqliteLoginHistoryRepo) Append(ctx context.Context, userID string, entry models.LoginEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_history (user_id, logged_in_at, user_agent) VALUES (?, ?, ?)`,
		userID, entry.DateTime.UTC(), entry.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to append login history: %w", err)
	}
	return nil
}

func (r *sqliteLoginHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.LoginEntry, error) {
	query := `
		SELECT logged_in_at, user_agent FROM login_history
		WHERE user_id = ? ORDER BY id DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list login history: %w", err)
	}
	defer rows.Close()

	var entries []models.LoginEntry
	for rows.Next() {
		var e models.LoginEntry
		if err := rows.Scan(&e.DateTime, &e.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to scan login entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate login history: %w", err)
	}
	return entries, nil
}
