package ports

import "net/http"

// CookieJar is the cookie side of the current request and its response.
type CookieJar interface {
	// Get returns the value of a request cookie.
	Get(name string) (string, bool)
	// Set adds a cookie to the response.
	Set(cookie *http.Cookie)
	// Clear expires a cookie on the client.
	Clear(name string)
}
