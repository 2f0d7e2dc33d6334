package memory

import (
	"net/http"
	"sync"
)

// CookieJar implements ports.CookieJar without HTTP. Request cookies are seeded
// with Put; Set and Clear record what the response would carry.
type CookieJar struct {
	mu       sync.Mutex
	request  map[string]string
	response map[string]*http.Cookie
}

// NewCookieJar creates a jar whose request carries the given cookies.
func NewCookieJar(request map[string]string) *CookieJar {
	j := &CookieJar{
		request:  make(map[string]string),
		response: make(map[string]*http.Cookie),
	}
	for k, v := range request {
		j.request[k] = v
	}
	return j
}

// Get implements ports.CookieJar.
func (j *CookieJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.request[name]
	return v, ok
}

// Set implements ports.CookieJar.
func (j *CookieJar) Set(c *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	cp := *c
	j.response[c.Name] = &cp
}

// Clear implements ports.CookieJar.
func (j *CookieJar) Clear(name string) {
	j.Set(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}

// Put adds a request cookie.
func (j *CookieJar) Put(name, value string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.request[name] = value
}

// Response returns the cookie the response carries for name, if any.
func (j *CookieJar) Response(name string) (*http.Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.response[name]
	return c, ok
}

// Cleared reports whether the response expires the named cookie.
func (j *CookieJar) Cleared(name string) bool {
	c, ok := j.Response(name)
	return ok && c.MaxAge < 0
}
