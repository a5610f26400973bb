// Package migrations embeds the goose SQL migrations for every supported
// dialect.
package migrations

import (
	"embed"

	"github.com/dmitrijs2005/keyregistry/internal/dbx"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dir returns the directory inside Migrations holding the dialect's files.
func Dir(d dbx.Dialect) string {
	if d == dbx.SQLite {
		return "sqlite"
	}
	return "postgres"
}
