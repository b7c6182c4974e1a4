package main

import (
	"database/sql"

	"github.com/akinalp/brickdepot/repository"
)

// Repositories holds every repository instance.
type Repositories struct {
	Set   repository.SetRepository
	Theme repository.ThemeRepository
	User  repository.UserRepository
}

// initRepositories builds the repositories over one shared pool. Login
// history has no pooled repository; it is only written inside the login
// transaction.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		Set:   repository.NewSQLiteSetRepo(conn),
		Theme: repository.NewSQLiteThemeRepo(conn),
		User:  repository.NewSQLiteUserRepo(conn),
	}
}
