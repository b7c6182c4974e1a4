package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/brickdepot/database"
	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg/email"
	"github.com/akinalp/brickdepot/pkg/logger"
	"github.com/akinalp/brickdepot/repository"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestAuth(t *testing.T, mailer email.Sender) (*authService, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAuthService(db.Conn, repository.NewSQLiteUserRepo(db.Conn), mailer, logger.Nop()).(*authService)
	svc.bcryptCost = bcrypt.MinCost
	return svc, db
}

func mustRegister(t *testing.T, svc AuthService, name, password string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &models.RegisterInput{
		UserName:  name,
		Email:     name + "@example.com",
		Password:  password,
		Password2: password,
	})
	require.NoError(t, err)
	return u
}
