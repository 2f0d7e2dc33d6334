package lock

import (
	"strings"
	"time"

	"github.com/aretw0/sessiondb/pkg/ports"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
	backend "github.com/redis/go-redis/v9"
)

// Backend names a lock variant.
type Backend string

const (
	BackendNamed    Backend = "named"
	BackendAdvisory Backend = "advisory"
	BackendRowFlag  Backend = "rowflag"
	BackendRedis    Backend = "redis"
)

// ParseBackend resolves a configured backend name. Database names are accepted as
// aliases for their native primitive.
func ParseBackend(name string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "named", "mysql":
		return BackendNamed, true
	case "advisory", "postgres", "pgsql":
		return BackendAdvisory, true
	case "rowflag", "sqlite":
		return BackendRowFlag, true
	case "redis":
		return BackendRedis, true
	default:
		return "", false
	}
}

type options struct {
	dialect     sqlstore.Dialect
	table       string
	width       KeyWidth
	redis       backend.UniversalClient
	redisPrefix string
	redisTTL    time.Duration
	retry       bool
	retryBase   time.Duration
	retryMax    time.Duration
}

// Option configures New.
type Option func(*options)

// WithTable sets the session table and its dialect, used by the row-flag backend.
func WithTable(dialect sqlstore.Dialect, table string) Option {
	return func(o *options) {
		o.dialect = dialect
		o.table = table
	}
}

// WithKeyWidth sets the advisory key width. Defaults to Width32.
func WithKeyWidth(width KeyWidth) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithRedis supplies the client for the redis backend.
func WithRedis(client backend.UniversalClient, prefix string, ttl time.Duration) Option {
	return func(o *options) {
		o.redis = client
		o.redisPrefix = prefix
		o.redisTTL = ttl
	}
}

// WithRetry makes the non-blocking backends poll until the acquire timeout,
// backing off from base to max. Off by default.
func WithRetry(base, max time.Duration) Option {
	return func(o *options) {
		o.retry = true
		o.retryBase = base
		o.retryMax = max
	}
}

// New builds the locker for the configured backend name on q.
// Unrecognized names, and the redis backend without a client, yield Unsupported.
func New(name string, q ports.Querier, opts ...Option) ports.Locker {
	o := options{
		dialect: sqlstore.SQLite,
		table:   sqlstore.DefaultTable,
		width:   Width32,
	}
	for _, opt := range opts {
		opt(&o)
	}

	b, ok := ParseBackend(name)
	if !ok {
		return Unsupported{Name: name}
	}

	var l ports.Locker
	switch b {
	case BackendNamed:
		// Blocks server-side, never wrapped.
		return NewNamedLock(q)
	case BackendAdvisory:
		l = NewAdvisoryLock(q, o.width)
	case BackendRowFlag:
		l = NewRowFlagLock(q, o.dialect, o.table)
	case BackendRedis:
		if o.redis == nil {
			return Unsupported{Name: name}
		}
		l = NewRedisLock(o.redis, o.redisPrefix, o.redisTTL)
	}

	if o.retry {
		l = NewRetrying(l, o.retryBase, o.retryMax)
	}
	return l
}
