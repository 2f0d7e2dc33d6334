package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder style, quoting and column types.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgsql", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unknown sql driver %q", driver)
	}
}

// Rebind rewrites '?' placeholders into the dialect's style.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Quote quotes an identifier. Used for the lock column, a reserved word in MySQL.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

func (d Dialect) blobType() string {
	switch d {
	case MySQL:
		return "LONGBLOB"
	case Postgres:
		return "BYTEA"
	default:
		return "BLOB"
	}
}

func (d Dialect) keyType() string {
	if d == SQLite {
		return "TEXT"
	}
	return "VARCHAR(128)"
}
