/*
Package http binds session lifecycles to net/http requests.

Middleware starts a session from the request cookies before the handler runs and
ends it afterwards; handlers reach it with FromContext. NewRouter mounts a small
chi router exposing the caller's own session.
*/
package http
