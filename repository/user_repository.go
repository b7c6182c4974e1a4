package repository

import (
	"context"

	"github.com/akinalp/brickdepot/models"
)

// UserRepository stores accounts. LoginHistory is not loaded here; see
// LoginHistoryRepository.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
}

// LoginHistoryRepository stores the append-only login log.
type LoginHistoryRepository interface {
	Append(ctx context.Context, userID string, entry models.LoginEntry) error
	// ListByUser returns entries most recent first. limit <= 0 returns all.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.LoginEntry, error)
}
