// Package migrations embeds the sqlite migration files for the client state
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
