package sessiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/sessiondb/internal/logging"
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/aretw0/sessiondb/pkg/observability"
	"github.com/aretw0/sessiondb/pkg/ports"
	"github.com/aretw0/sessiondb/pkg/session"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
)

// ErrNoCodec is returned when a Runtime is built without a payload codec.
var ErrNoCodec = errors.New("sessiondb: a codec is required")

// Runtime owns the database handle and builds one session Lifecycle per request.
type Runtime struct {
	db      *sql.DB
	dialect sqlstore.Dialect
	ownsDB  bool

	table        string
	backend      string
	lockOpts     []lock.Option
	codec        ports.Codec
	sessionOpts  []session.Option
	metrics      *observability.Metrics
	logger       *slog.Logger
	ensureSchema bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTable sets the session table. Defaults to sqlstore.DefaultTable.
func WithTable(table string) Option {
	return func(rt *Runtime) {
		rt.table = table
	}
}

// WithLockBackend selects the lock backend by name (see lock.ParseBackend).
// Defaults to the native primitive of the dialect.
func WithLockBackend(name string, opts ...lock.Option) Option {
	return func(rt *Runtime) {
		rt.backend = name
		rt.lockOpts = append(rt.lockOpts, opts...)
	}
}

// WithCodec sets the payload codec. Required.
func WithCodec(c ports.Codec) Option {
	return func(rt *Runtime) {
		rt.codec = c
	}
}

// WithSessionOptions passes options to every Lifecycle.
func WithSessionOptions(opts ...session.Option) Option {
	return func(rt *Runtime) {
		rt.sessionOpts = append(rt.sessionOpts, opts...)
	}
}

// WithMetrics instruments the locker, the store and lifecycle transitions.
func WithMetrics(m *observability.Metrics) Option {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

// WithLogger configures a logger for the Runtime and its lifecycles.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithSchema creates the session table when missing.
func WithSchema() Option {
	return func(rt *Runtime) {
		rt.ensureSchema = true
	}
}

// Open opens the database and builds a Runtime over it. The Runtime closes the
// database on Close.
func Open(driver, dsn string, opts ...Option) (*Runtime, error) {
	db, dialect, err := sqlstore.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	rt, err := New(db, dialect, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	rt.ownsDB = true
	return rt, nil
}

// New builds a Runtime over an existing database handle.
func New(db *sql.DB, dialect sqlstore.Dialect, opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		db:      db,
		dialect: dialect,
		table:   sqlstore.DefaultTable,
		backend: defaultBackend(dialect),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(rt)
	}

	if rt.codec == nil {
		return nil, ErrNoCodec
	}
	if !sqlstore.ValidTable(rt.table) {
		return nil, fmt.Errorf("sessiondb: invalid table name %q", rt.table)
	}
	if _, ok := lock.ParseBackend(rt.backend); !ok {
		rt.logger.Warn("Unsupported lock backend, sessions will not resume", "backend", rt.backend)
	}
	if rt.ensureSchema {
		if err := rt.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

func defaultBackend(d sqlstore.Dialect) string {
	switch d {
	case sqlstore.MySQL:
		return string(lock.BackendNamed)
	case sqlstore.Postgres:
		return string(lock.BackendAdvisory)
	default:
		return string(lock.BackendRowFlag)
	}
}

// Begin pins a connection and builds a Lifecycle whose store and locker both
// use it, so connection-scoped locks are released where they were taken.
// release returns the connection to the pool and must be called once the
// request is done.
//
// A SQLite database opened by Open has a single connection, so Begin blocks
// until the previous request releases it and requests of one process run one
// at a time. The row-flag lock then only arbitrates between processes sharing
// the file.
func (rt *Runtime) Begin(ctx context.Context) (*session.Lifecycle, func(), error) {
	conn, err := rt.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin session: %w", sqlstore.Classify(err, domain.ErrConnection))
	}

	var store ports.RowStore = sqlstore.New(conn, rt.dialect, sqlstore.WithTable(rt.table))
	lockOpts := append([]lock.Option{lock.WithTable(rt.dialect, rt.table)}, rt.lockOpts...)
	locker := lock.New(rt.backend, conn, lockOpts...)

	opts := []session.Option{session.WithLogger(rt.logger)}
	if rt.metrics != nil {
		store = rt.metrics.InstrumentStore(store)
		locker = rt.metrics.InstrumentLocker(locker)
		opts = append(opts, session.WithObserver(rt.metrics.ObserveTransition))
	}
	opts = append(opts, rt.sessionOpts...)

	release := func() {
		if err := conn.Close(); err != nil {
			rt.logger.Warn("Failed to return connection", "err", err)
		}
	}
	return session.New(store, locker, rt.codec, opts...), release, nil
}

// EnsureSchema creates the session table, with the lock column when the
// row-flag backend is selected.
func (rt *Runtime) EnsureSchema(ctx context.Context) error {
	return sqlstore.EnsureSchema(ctx, rt.db, rt.dialect, rt.table, rt.RowFlag())
}

// RowFlag reports whether the row-flag backend is selected.
func (rt *Runtime) RowFlag() bool {
	b, ok := lock.ParseBackend(rt.backend)
	return ok && b == lock.BackendRowFlag
}

// Backend returns the configured lock backend name.
func (rt *Runtime) Backend() string { return rt.backend }

// Store returns a row store over the connection pool, for administration.
func (rt *Runtime) Store() *sqlstore.Store {
	return sqlstore.New(rt.db, rt.dialect, sqlstore.WithTable(rt.table))
}

// DB returns the database handle.
func (rt *Runtime) DB() *sql.DB { return rt.db }

// Close closes the database if the Runtime opened it.
func (rt *Runtime) Close() error {
	if !rt.ownsDB {
		return nil
	}
	return rt.db.Close()
}
