/*
Package ports defines the driven ports (interfaces) of the session core.

These interfaces decouple the lifecycle from concrete backends, allowing it to
run against SQL tables, Redis or in-memory fakes.

# Key Interfaces

  - RowStore: single-row CRUD over the session table.
  - Locker: acquire/release of the per-session mutual exclusion right.
  - Codec: encryption of the opaque session payload.
  - KeyGenerator: source of fresh session keys.
  - CookieJar: the cookie side of the current request/response.
  - Querier: the subset of database/sql shared by *sql.DB and *sql.Conn.
*/
package ports
