package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/ports"
)

// DefaultLockTimeout bounds lock acquisition in Resume.
const DefaultLockTimeout = 10 * time.Second

// CleanupHook releases session-scoped resources (temporary files, uploads) on Destroy.
type CleanupHook func(ctx context.Context, key string) error

// Observer is notified of every state change.
type Observer func(from, to domain.State)

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithKeyGenerator sets the generator for new session keys.
func WithKeyGenerator(gen ports.KeyGenerator) Option {
	return func(l *Lifecycle) {
		l.keys = gen
	}
}

// WithLogger configures a logger for the Lifecycle.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

// WithLockTimeout overrides DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(l *Lifecycle) {
		l.lockTimeout = d
	}
}

// WithCookies overrides DefaultCookies.
func WithCookies(c CookieConfig) Option {
	return func(l *Lifecycle) {
		l.cookies = c
	}
}

// WithCleanupHook registers a hook run by Destroy before the row is deleted.
func WithCleanupHook(hook CleanupHook) Option {
	return func(l *Lifecycle) {
		l.cleanup = hook
	}
}

// WithTokenSecret sets the HMAC secret of RequestToken.
func WithTokenSecret(secret []byte) Option {
	return func(l *Lifecycle) {
		l.tokenSecret = append([]byte(nil), secret...)
	}
}

// WithObserver registers a state change observer.
func WithObserver(obs Observer) Option {
	return func(l *Lifecycle) {
		l.observer = obs
	}
}
