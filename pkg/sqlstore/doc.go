// Package sqlstore provides the relational session table.
//
// The store issues one statement per call against a single table:
//
//	SELECT data, created_at FROM session WHERE id = ?
//	INSERT INTO session (id, data, created_at) VALUES (?, ?, CURRENT_DATE)
//	UPDATE session SET data = ? WHERE id = ?
//	DELETE FROM session WHERE id = ?
//
// Placeholders are rebound per dialect. The store runs on any ports.Querier, so
// a request can pin a *sql.Conn and share it with a connection-scoped locker.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package sqlstore
