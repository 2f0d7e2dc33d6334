/*
Package sessiondb stores server-side web sessions in a relational table and
serializes concurrent reads of a session across stateless request handlers.

# Concept

Each session is one row keyed by an opaque, high-entropy key carried in a cookie.
The row holds the encrypted session data and its creation date. When a request
resumes a session, a lock named after the key is taken for the duration of the
read, using whichever primitive the backend offers:

  - named: MySQL GET_LOCK / RELEASE_LOCK, blocking up to the lock timeout.
  - advisory: PostgreSQL pg_try_advisory_lock on a CRC32 of the lock name.
  - rowflag: a compare-and-swap on a "lock" column of the session row.
  - redis: SET NX with a token-checked release.

The lock covers the read only. Saves are unsynchronized and the last writer wins.

# Usage

	rt, err := sessiondb.Open("sqlite3", "sessions.db",
		sessiondb.WithCodec(c),
		sessiondb.WithSchema(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rt.Close()

	lc, release, err := rt.Begin(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer release()

	if err := lc.Start(ctx, jar, false); err != nil {
		// anonymous request
	}
	lc.Set("user", "alice")
	_ = lc.End(ctx)

For net/http servers, pkg/adapters/http wraps this in a middleware.
*/
package sessiondb
