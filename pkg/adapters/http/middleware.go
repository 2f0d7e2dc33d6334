package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/session"
)

// Beginner hands out a Lifecycle for one request. release frees the resources
// behind it (a pinned database connection) and must be called once.
type Beginner interface {
	Begin(ctx context.Context) (lc *session.Lifecycle, release func(), err error)
}

type sessionContextKey struct{}

type requestSession struct {
	lc  *session.Lifecycle
	jar *CookieJar
}

// FromContext returns the Lifecycle bound to the request by Middleware.
func FromContext(ctx context.Context) (*session.Lifecycle, bool) {
	rs, ok := ctx.Value(sessionContextKey{}).(*requestSession)
	if !ok {
		return nil, false
	}
	return rs.lc, true
}

func jarFromContext(ctx context.Context) (*CookieJar, bool) {
	rs, ok := ctx.Value(sessionContextKey{}).(*requestSession)
	if !ok {
		return nil, false
	}
	return rs.jar, true
}

// Middleware starts a session for every request and ends it after the handler
// returns. Any failure to start leaves the request anonymous: the handler still
// runs and FromContext reports a Lifecycle that is not Active.
func Middleware(b Beginner, required bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lc, release, err := b.Begin(ctx)
			if err != nil {
				logger.Error("Session unavailable", "kind", domain.Kind(err), "err", err)
				next.ServeHTTP(w, r)
				return
			}
			defer release()

			jar := NewCookieJar(w, r)
			if err := lc.Start(ctx, jar, required); err != nil {
				logger.Debug("Anonymous request", "kind", domain.Kind(err), "err", err)
			}

			ctx = context.WithValue(ctx, sessionContextKey{}, &requestSession{lc: lc, jar: jar})
			next.ServeHTTP(w, r.WithContext(ctx))

			if err := lc.End(ctx); err != nil {
				logger.Warn("Session not saved", "kind", domain.Kind(err), "err", err)
			}
		})
	}
}

// TokenHeader carries the request token on state-changing requests.
const TokenHeader = "X-Session-Token"

// RequireToken rejects unsafe methods on a live session unless TokenHeader
// matches the session's request token.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		lc, ok := FromContext(r.Context())
		if ok && lc.Active() && !lc.VerifyToken(r.Header.Get(TokenHeader)) {
			http.Error(w, "invalid session token", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
