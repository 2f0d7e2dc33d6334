package domain

import "errors"

// ErrSessionNotFound is returned when a session key has no row in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrConnection is returned when the backend could not be reached.
var ErrConnection = errors.New("session backend unavailable")

// ErrLockDenied is returned when a session lock was not acquired, either because
// another holder has it, the timeout elapsed, or the backend answer was ambiguous.
var ErrLockDenied = errors.New("session lock not acquired")

// ErrLockNotHeld is returned when a release could not be confirmed by the backend.
var ErrLockNotHeld = errors.New("session lock not held")

// ErrReadFailed is returned when the backend answered a read with an error. It
// never means the row is absent.
var ErrReadFailed = errors.New("session read failed")

// ErrWriteFailed is returned when an insert, update or delete affected no row or
// the backend rejected it.
var ErrWriteFailed = errors.New("session write failed")

// ErrUnsupportedBackend is returned by the locker built for an unknown backend.
// Locking is disabled for that configuration.
var ErrUnsupportedBackend = errors.New("unsupported lock backend")

// ErrCorruptPayload is returned when a stored payload cannot be decrypted or decoded.
var ErrCorruptPayload = errors.New("session payload corrupt")

// ErrInvalidTransition is returned when an operation is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid session transition")

// Kind maps an error to a stable, low-cardinality label for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnsupportedBackend):
		return "unsupported"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrLockDenied):
		return "denied"
	case errors.Is(err, ErrLockNotHeld):
		return "not_held"
	case errors.Is(err, ErrSessionNotFound):
		return "not_found"
	case errors.Is(err, ErrReadFailed):
		return "read"
	case errors.Is(err, ErrWriteFailed):
		return "write"
	case errors.Is(err, ErrCorruptPayload):
		return "corrupt"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid"
	default:
		return "error"
	}
}
