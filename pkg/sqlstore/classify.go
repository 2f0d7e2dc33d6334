package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/aretw0/sessiondb/pkg/domain"
)

// Classify wraps a backend error with domain.ErrConnection when the backend could
// not be reached, and with kind otherwise. It returns nil for a nil error.
func Classify(err error, kind error) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// IsConnectionError reports whether err means the backend is unreachable.
func IsConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
