package database

import "embed"

// EmbeddedMigrations holds migrations/*.sql, compiled into the binary.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS
