/*
Package domain contains the core session models and failure kinds.

It defines the persisted session record, the lifecycle states a request walks
through, and the sentinel errors every other package wraps. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Record: one row of the session table (key, ciphertext, creation date).
  - State: the lifecycle position of a request's session (Unstarted .. Destroyed).
  - Failure kinds: ErrConnection, ErrLockDenied, ErrWriteFailed, ErrUnsupportedBackend, ...
*/
package domain
