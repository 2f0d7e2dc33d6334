package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/sessiondb"
	"github.com/aretw0/sessiondb/internal/config"
	"github.com/aretw0/sessiondb/pkg/codec"
	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/aretw0/sessiondb/pkg/observability"
	"github.com/aretw0/sessiondb/pkg/session"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
)

// app bundles what the commands share. close releases everything opened.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	runtime *sessiondb.Runtime
	codec   *codec.AESGCM
	redis   redis.UniversalClient
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.runtime != nil {
		a.runtime.Close()
	}
}

// openApp builds the Runtime described by cfg. metrics may be nil.
func openApp(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	c, err := newCodec(cfg.Session, logger)
	if err != nil {
		return nil, err
	}
	a.codec = c

	lockOpts := []lock.Option{}
	if cfg.Lock.KeyWidth == 64 {
		lockOpts = append(lockOpts, lock.WithKeyWidth(lock.Width64))
	}
	if cfg.Lock.Retry {
		lockOpts = append(lockOpts, lock.WithRetry(cfg.Lock.RetryBase, cfg.Lock.RetryMaxDelay))
	}
	if b, ok := lock.ParseBackend(cfg.Lock.Backend); ok && b == lock.BackendRedis {
		if cfg.Lock.Redis.Addr == "" {
			return nil, errors.New("lock.redis.addr is required for the redis backend")
		}
		a.redis = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: strings.Split(cfg.Lock.Redis.Addr, ","),
		})
		lockOpts = append(lockOpts, lock.WithRedis(a.redis, cfg.Lock.Redis.Prefix, cfg.Lock.Redis.TTL))
	}

	sessionOpts := []session.Option{
		session.WithLockTimeout(cfg.Lock.Timeout),
		session.WithCookies(session.CookieConfig{
			Name:       cfg.Session.CookieName,
			Path:       cfg.Session.CookiePath,
			Domain:     cfg.Session.CookieDomain,
			Secure:     cfg.Session.Secure,
			SameSite:   session.DefaultCookies().SameSite,
			Companions: cfg.Session.Companions,
		}),
	}
	if cfg.Session.TokenSecret != "" {
		sessionOpts = append(sessionOpts, session.WithTokenSecret([]byte(cfg.Session.TokenSecret)))
	}

	opts := []sessiondb.Option{
		sessiondb.WithCodec(c),
		sessiondb.WithTable(cfg.Database.Table),
		sessiondb.WithLockBackend(cfg.Lock.Backend, lockOpts...),
		sessiondb.WithSessionOptions(sessionOpts...),
		sessiondb.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, sessiondb.WithMetrics(metrics))
	}

	rt, err := sessiondb.Open(cfg.Database.Driver, cfg.Database.DSN, opts...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.runtime = rt
	return a, nil
}

// newCodec builds the payload cipher. Without a configured key an ephemeral one
// is generated, so sessions do not survive a restart.
func newCodec(cfg config.SessionConfig, logger *slog.Logger) (*codec.AESGCM, error) {
	var active []byte
	if cfg.Key == "" {
		logger.Warn("No session.key configured, using an ephemeral key")
		active = make([]byte, codec.KeySize)
		if _, err := rand.Read(active); err != nil {
			return nil, err
		}
	} else {
		key, err := cfg.KeyBytes()
		if err != nil {
			return nil, err
		}
		active = key
	}

	fallback, err := cfg.FallbackKeyBytes()
	if err != nil {
		return nil, err
	}
	c, err := codec.New(codec.Config{ActiveKey: active, FallbackKeys: fallback})
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	return c, nil
}
