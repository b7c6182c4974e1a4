package repository

import (
	"context"

	"github.com/akinalp/brickdepot/models"
)

// ThemeRepository stores themes.
type ThemeRepository interface {
	List(ctx context.Context) ([]models.Theme, error)
	Upsert(ctx context.Context, theme models.Theme) error
}
