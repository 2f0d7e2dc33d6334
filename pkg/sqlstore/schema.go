package sqlstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/sessiondb/pkg/ports"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTable reports whether name can be used as the session table name.
func ValidTable(name string) bool {
	return identRe.MatchString(name)
}

// Schema returns the CREATE TABLE statement for the session table.
// The lock column is only needed by the row-flag lock backend.
func Schema(d Dialect, table string, withLockColumn bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", table)
	fmt.Fprintf(&b, "\tid %s NOT NULL PRIMARY KEY,\n", d.keyType())
	fmt.Fprintf(&b, "\tdata %s NOT NULL,\n", d.blobType())
	b.WriteString("\tcreated_at DATE NOT NULL")
	if withLockColumn {
		fmt.Fprintf(&b, ",\n\t%s INTEGER NOT NULL DEFAULT 0", d.Quote("lock"))
	}
	b.WriteString("\n)")
	return b.String()
}

// EnsureSchema creates the session table if it does not exist.
// This function is idempotent.
func EnsureSchema(ctx context.Context, q ports.Querier, d Dialect, table string, withLockColumn bool) error {
	if !ValidTable(table) {
		return fmt.Errorf("invalid session table name %q", table)
	}
	if _, err := q.ExecContext(ctx, Schema(d, table, withLockColumn)); err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}
	return nil
}
