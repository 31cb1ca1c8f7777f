// Package migrations embeds the goose migrations for the local key/value
// store (sqlite/) and the optional PostgreSQL accounts table (postgres/).
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

const (
	SQLiteDir   = "sqlite"
	PostgresDir = "postgres"
)
