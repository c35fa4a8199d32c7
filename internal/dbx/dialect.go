package dbx

import "github.com/jmoiron/sqlx"

// Dialect names the SQL backend a repository talks to. The value doubles as
// the database/sql driver name.
type Dialect string

const (
	DialectPostgres Dialect = "pgx"
	DialectSQLite   Dialect = "sqlite"
)

// Rebind converts a query written with '?' placeholders into the bind style
// of the dialect ($1, $2, ... for Postgres; unchanged for SQLite).
func (d Dialect) Rebind(query string) string {
	if d == DialectPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return sqlx.Rebind(sqlx.QUESTION, query)
}

// GooseDialect is the dialect name understood by goose.SetDialect.
func (d Dialect) GooseDialect() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite3"
}
