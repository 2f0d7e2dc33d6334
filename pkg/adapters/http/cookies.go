package http

import (
	"net/http"
)

// CookieJar implements ports.CookieJar over one request and its response.
type CookieJar struct {
	w      http.ResponseWriter
	r      *http.Request
	Path   string
	Domain string
}

// NewCookieJar binds a jar to the request. Cleared cookies use path "/".
func NewCookieJar(w http.ResponseWriter, r *http.Request) *CookieJar {
	return &CookieJar{w: w, r: r, Path: "/"}
}

// Get implements ports.CookieJar.
func (j *CookieJar) Get(name string) (string, bool) {
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set implements ports.CookieJar.
func (j *CookieJar) Set(c *http.Cookie) {
	http.SetCookie(j.w, c)
}

// Clear implements ports.CookieJar.
func (j *CookieJar) Clear(name string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     j.Path,
		Domain:   j.Domain,
		MaxAge:   -1,
		HttpOnly: true,
	})
}
