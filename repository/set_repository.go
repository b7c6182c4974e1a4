// Package repository defines the storage interfaces and their SQLite
// implementations.
//
// Every implementation takes a database.TxQuerier, so the same repository
// runs against the pool or inside a transaction:
//
//	database.WithTx(ctx, db, func(tx *sql.Tx) error {
//		return repository.NewSQLiteSetRepo(tx).Upsert(ctx, set)
//	})
package repository

import (
	"context"

	"github.com/akinalp/brickdepot/models"
)

// SetRepository stores catalog items.
type SetRepository interface {
	List(ctx context.Context) ([]models.Set, error)
	// ListByTheme matches theme names case-insensitively by substring.
	ListByTheme(ctx context.Context, theme string) ([]models.Set, error)
	GetByNum(ctx context.Context, setNum string) (*models.Set, error)
	Create(ctx context.Context, in *models.SetInput) error
	Update(ctx context.Context, in *models.SetInput) error
	Delete(ctx context.Context, setNum string) error
	// Upsert inserts or replaces a set. Used by the seed import.
	Upsert(ctx context.Context, in *models.SetInput) error
}
