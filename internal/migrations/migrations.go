// Package migrations embeds the goose schema migrations of the document
// store, one directory per SQL dialect.
package migrations

import (
	"embed"

	"github.com/dmitrijs2005/imgvault/internal/dbx"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dir returns the directory inside Migrations that holds the files for d.
func Dir(d dbx.Dialect) string {
	if d == dbx.DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}
