package session

import "net/http"

// Default cookie names.
const (
	DefaultCookieName = "sessid"
)

// DefaultCompanions are the cookies cleared together with the session cookie.
var DefaultCompanions = []string{"sessauth", "reload_folders", "messages"}

// CookieConfig describes the primary session cookie and its companions.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite

	// Companions are cleared on Destroy along with the session cookie.
	Companions []string
}

// DefaultCookies returns the default cookie configuration.
func DefaultCookies() CookieConfig {
	return CookieConfig{
		Name:       DefaultCookieName,
		Path:       "/",
		SameSite:   http.SameSiteLaxMode,
		Companions: append([]string(nil), DefaultCompanions...),
	}
}

// sessionCookie builds the primary cookie. No Expires or MaxAge: it lives for
// the browser session.
func (c CookieConfig) sessionCookie(key string) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    key,
		Path:     c.Path,
		Domain:   c.Domain,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: c.SameSite,
	}
}

// names returns every cookie a Destroy clears.
func (c CookieConfig) names() []string {
	return append([]string{c.Name}, c.Companions...)
}
