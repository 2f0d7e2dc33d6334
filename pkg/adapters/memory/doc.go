// Package memory provides in-process adapters: a session row store with its
// row-flag locker, and a cookie jar detached from HTTP. They back tests and
// single-process development setups.
package memory
