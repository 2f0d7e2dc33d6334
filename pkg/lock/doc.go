/*
Package lock implements the per-session lock coordinator over several backends.

Every backend derives the same lock name from the session key (see Name) and
implements ports.Locker. The backend is picked once, by New, from configuration:

  - named (MySQL GET_LOCK/RELEASE_LOCK): connection scoped, blocks server-side
    for up to the timeout. Acquire and Release must run on the same *sql.Conn.
  - advisory (PostgreSQL pg_try_advisory_lock/pg_advisory_unlock): session
    scoped, keyed by a checksum of the lock name, never blocks.
  - rowflag (any SQL table): a compare-and-swap on the row's lock column, a
    single non-blocking attempt.
  - redis (SET NX PX): a single non-blocking attempt with a token-checked release.

Any other backend name yields a locker whose Acquire and Release always fail
with domain.ErrUnsupportedBackend without contacting anything. Callers must treat
that as "not locked".

Only the named backend honours the timeout. The others make one attempt unless
wrapped with WithRetry.
*/
package lock
