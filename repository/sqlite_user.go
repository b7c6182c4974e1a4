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

type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo returns a UserRepository backed by SQLite.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

// Create inserts user. user.ID must already be set.
func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, user_name, email, password_hash, profile_image)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at`,
		user.ID, user.UserName, user.Email, user.PasswordHash, user.ProfileImage,
	).Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user name already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, profile_image, created_at
		FROM users WHERE user_name = ?`, userName,
	).Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.ProfileImage, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by user name: %w", err)
	}
	return user, nil
}
