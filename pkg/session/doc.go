/*
Package session implements the per-request session lifecycle.

A Lifecycle starts or resumes a session from the request cookies, holds the
decoded session data for the rest of the request and writes it back when the
request ends. Mutual exclusion between concurrent requests on the same session
is delegated to a ports.Locker and covers the read in Resume only: two requests
that resume the same session both write their own snapshot and the last one to
save wins.

A Lifecycle belongs to one request and is not safe for concurrent use.
*/
package session
