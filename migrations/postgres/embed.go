// Package migrations embeds the SQL migration files.
package migrations

import "embed"

// PostgresFS contiene las migraciones de Postgres (*_up.sql / *_down.sql).
//
//go:embed *.sql
var PostgresFS embed.FS
