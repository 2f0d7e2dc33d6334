package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/aretw0/sessiondb/internal/logging"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/keys"
	"github.com/aretw0/sessiondb/pkg/ports"
)

// Lifecycle drives one request's session through the states of domain.State.
type Lifecycle struct {
	store  ports.RowStore
	locker ports.Locker
	codec  ports.Codec
	keys   ports.KeyGenerator

	logger      *slog.Logger
	lockTimeout time.Duration
	cookies     CookieConfig
	cleanup     CleanupHook
	tokenSecret []byte
	observer    Observer

	state     domain.State
	key       string
	data      map[string]any
	persisted bool // a row exists for key, so writes update instead of inserting
	token     string
}

// New creates a Lifecycle in state Unstarted.
func New(store ports.RowStore, locker ports.Locker, codec ports.Codec, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		store:       store,
		locker:      locker,
		codec:       codec,
		keys:        keys.UUID{},
		logger:      logging.NewNop(),
		lockTimeout: DefaultLockTimeout,
		cookies:     DefaultCookies(),
		data:        make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	if len(l.tokenSecret) == 0 {
		l.tokenSecret = randomSecret()
	}
	return l
}

// Start attaches the request to a session.
//
// A request carrying the session cookie resumes that session. If the cookie
// names a row that is gone or unreadable, it is treated as stale. Without a
// usable cookie, a required session is destroyed (stale row and cookies
// removed) and ErrSessionNotFound returned; otherwise a new session is created.
//
// Lock and connection failures end Start without falling through: the request
// proceeds anonymously and the error is returned for the caller to log.
func (l *Lifecycle) Start(ctx context.Context, jar ports.CookieJar, required bool) error {
	if l.state != domain.StateUnstarted && l.state != domain.StateClosed {
		return fmt.Errorf("start session from %s: %w", l.state, domain.ErrInvalidTransition)
	}

	var stale string
	if key, ok := jar.Get(l.cookies.Name); ok && key != "" {
		err := l.Resume(ctx, key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrCorruptPayload) {
			return err
		}
		stale = key
	}

	if required {
		_ = l.destroy(ctx, jar, stale)
		return fmt.Errorf("start session: %w", domain.ErrSessionNotFound)
	}
	return l.create(ctx, jar)
}

func (l *Lifecycle) create(ctx context.Context, jar ports.CookieJar) error {
	key, err := l.keys.NewKey()
	if err != nil {
		l.logger.Error("Failed to generate session key", "err", err)
		return fmt.Errorf("create session: %w", err)
	}

	l.setKey(key)
	l.data = make(map[string]any)
	l.persisted = false
	l.transition(domain.StateNew)
	jar.Set(l.cookies.sessionCookie(key))

	if err := l.write(ctx); err != nil {
		l.deactivate()
		return fmt.Errorf("create session: %w", err)
	}
	l.transition(domain.StateActive)
	return nil
}

// Resume loads the session stored under key.
//
// The lock is held for the read only and released before Resume returns. Save
// takes no lock, so two requests that resume the same session both write their
// full snapshot and the last writer wins.
func (l *Lifecycle) Resume(ctx context.Context, key string) error {
	if l.state != domain.StateUnstarted && l.state != domain.StateClosed {
		return fmt.Errorf("resume session from %s: %w", l.state, domain.ErrInvalidTransition)
	}

	if err := l.locker.Acquire(ctx, key, l.lockTimeout); err != nil {
		l.logger.Warn("Session lock not acquired",
			"session", redact(key),
			"backend", l.locker.Backend(),
			"kind", domain.Kind(err),
			"err", err,
		)
		return fmt.Errorf("resume session: %w", err)
	}

	rec, readErr := l.store.Read(ctx, key)

	if err := l.locker.Release(ctx, key); err != nil {
		l.logger.Warn("Failed to release session lock",
			"session", redact(key),
			"backend", l.locker.Backend(),
			"err", err,
		)
	}

	if readErr != nil {
		if !errors.Is(readErr, domain.ErrSessionNotFound) {
			l.logger.Error("Failed to read session", "session", redact(key), "err", readErr)
		}
		return fmt.Errorf("resume session: %w", readErr)
	}

	data, err := l.decode(rec.Data)
	if err != nil {
		l.logger.Warn("Discarding unreadable session", "session", redact(key), "err", err)
		return fmt.Errorf("resume session: %w", err)
	}

	l.setKey(key)
	l.data = data
	l.persisted = true
	l.transition(domain.StateActive)
	return nil
}

// Save writes the in-memory data back to the store. It takes no lock. A failed
// write is logged and returned; the in-memory data is kept as is.
func (l *Lifecycle) Save(ctx context.Context) error {
	if l.state != domain.StateNew && l.state != domain.StateActive {
		return fmt.Errorf("save session from %s: %w", l.state, domain.ErrInvalidTransition)
	}
	return l.write(ctx)
}

// CloseEarly finalizes the session before the request ends. The data is saved
// now and End no longer saves.
func (l *Lifecycle) CloseEarly(ctx context.Context) error {
	if l.state != domain.StateNew && l.state != domain.StateActive {
		return fmt.Errorf("close session from %s: %w", l.state, domain.ErrInvalidTransition)
	}
	l.transition(domain.StateClosed)
	return l.write(ctx)
}

// End finishes the request: a live, unclosed session is saved, then the
// Lifecycle is deactivated. End never destroys the session.
func (l *Lifecycle) End(ctx context.Context) error {
	var err error
	switch l.state {
	case domain.StateNew, domain.StateActive:
		err = l.write(ctx)
		l.deactivate()
	case domain.StateClosed:
		l.deactivate()
	}
	return err
}

// Destroy deletes the session row and clears the session cookies. It is safe
// to call in any state, any number of times.
func (l *Lifecycle) Destroy(ctx context.Context, jar ports.CookieJar) error {
	key := l.key
	if key == "" {
		key, _ = jar.Get(l.cookies.Name)
	}
	return l.destroy(ctx, jar, key)
}

func (l *Lifecycle) destroy(ctx context.Context, jar ports.CookieJar, key string) error {
	var err error
	if key != "" {
		if l.cleanup != nil {
			if hookErr := l.cleanup(ctx, key); hookErr != nil {
				l.logger.Warn("Session cleanup hook failed", "session", redact(key), "err", hookErr)
			}
		}
		if delErr := l.store.Delete(ctx, key); delErr != nil && !errors.Is(delErr, domain.ErrSessionNotFound) {
			l.logger.Error("Failed to delete session", "session", redact(key), "err", delErr)
			err = fmt.Errorf("destroy session: %w", delErr)
		}
	}

	for _, name := range l.cookies.names() {
		jar.Clear(name)
	}

	l.setKey("")
	l.data = make(map[string]any)
	l.persisted = false
	l.transition(domain.StateDestroyed)
	return err
}

// write encodes, encrypts and stores the data: update when the row exists,
// insert otherwise.
func (l *Lifecycle) write(ctx context.Context) error {
	payload, err := l.encode()
	if err != nil {
		l.logger.Error("Failed to encode session", "session", redact(l.key), "err", err)
		return fmt.Errorf("save session: %w", err)
	}

	if l.persisted {
		err = l.store.Update(ctx, l.key, payload)
	} else {
		err = l.store.Insert(ctx, l.key, payload)
	}
	if err != nil {
		l.logger.Error("Failed to save session",
			"session", redact(l.key),
			"insert", !l.persisted,
			"kind", domain.Kind(err),
			"err", err,
		)
		return fmt.Errorf("save session: %w", err)
	}
	l.persisted = true
	return nil
}

func (l *Lifecycle) encode() ([]byte, error) {
	plain, err := json.Marshal(l.data)
	if err != nil {
		return nil, err
	}
	return l.codec.Encrypt(plain)
}

func (l *Lifecycle) decode(payload []byte) (map[string]any, error) {
	plain, err := l.codec.Decrypt(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptPayload, err)
	}
	data := make(map[string]any)
	if len(plain) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(plain, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptPayload, err)
	}
	return data, nil
}

func (l *Lifecycle) deactivate() {
	l.setKey("")
	l.data = make(map[string]any)
	l.persisted = false
	l.transition(domain.StateUnstarted)
}

func (l *Lifecycle) setKey(key string) {
	if key != l.key {
		l.token = ""
	}
	l.key = key
}

func (l *Lifecycle) transition(to domain.State) {
	from := l.state
	if from == to {
		return
	}
	l.state = to
	if l.observer != nil {
		l.observer(from, to)
	}
}

// State returns the current state.
func (l *Lifecycle) State() domain.State { return l.state }

// Active reports whether the request has a live, writable session.
func (l *Lifecycle) Active() bool {
	return l.state == domain.StateNew || l.state == domain.StateActive
}

// Key returns the current session key, empty when there is none.
func (l *Lifecycle) Key() string { return l.key }

// Get returns the value stored under name.
func (l *Lifecycle) Get(name string) (any, bool) {
	v, ok := l.data[name]
	return v, ok
}

// Set stores value under name. The change is persisted by the next save.
func (l *Lifecycle) Set(name string, value any) {
	l.data[name] = value
}

// Unset removes name.
func (l *Lifecycle) Unset(name string) {
	delete(l.data, name)
}

// Data returns a shallow copy of the session data.
func (l *Lifecycle) Data() map[string]any {
	return maps.Clone(l.data)
}

// redact shortens a session key for logs.
func redact(key string) string {
	if len(key) > 8 {
		return key[:8] + "…"
	}
	return key
}
