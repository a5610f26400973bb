package dbx

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Dialect names a supported database/sql driver. Repositories write their
// SQL once with '?' placeholders and rebind it for the active dialect.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres, SQLite:
		return Dialect(driver), nil
	case "postgres":
		return Postgres, nil
	case "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// DriverName is the name registered with database/sql.
func (d Dialect) DriverName() string {
	return string(d)
}

// Rebind converts '?' placeholders into the dialect's bind variables.
func (d Dialect) Rebind(query string) string {
	switch d {
	case Postgres:
		return sqlx.Rebind(sqlx.DOLLAR, query)
	default:
		return sqlx.Rebind(sqlx.QUESTION, query)
	}
}
