// Package config loads the sessiondb configuration file.
package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the root of the configuration file.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Lock     LockConfig     `mapstructure:"lock"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

// DatabaseConfig selects the SQL driver and session table.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// LockConfig selects the lock backend.
type LockConfig struct {
	Backend  string        `mapstructure:"backend"`
	Timeout  time.Duration `mapstructure:"timeout"`
	KeyWidth int           `mapstructure:"key_width"`

	// Retry enables bounded retry with exponential backoff for the non-blocking backends.
	Retry         bool          `mapstructure:"retry"`
	RetryBase     time.Duration `mapstructure:"retry_base"`
	RetryMaxDelay time.Duration `mapstructure:"retry_max_delay"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis lock backend.
type RedisConfig struct {
	Addr   string        `mapstructure:"addr"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// SessionConfig configures cookies and payload encryption.
type SessionConfig struct {
	CookieName   string   `mapstructure:"cookie_name"`
	CookiePath   string   `mapstructure:"cookie_path"`
	CookieDomain string   `mapstructure:"cookie_domain"`
	Secure       bool     `mapstructure:"secure"`
	Companions   []string `mapstructure:"companions"`

	// Key is the hex encoded AES-256 key. FallbackKeys are tried on decrypt only.
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
	TokenSecret  string   `mapstructure:"token_secret"`

	// MaxAge bounds how long rows are kept by the gc command.
	MaxAge time.Duration `mapstructure:"max_age"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	Required bool   `mapstructure:"required"`
}

// Default returns the configuration used when no file overrides a value.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "sessions.db",
			Table:  "session",
		},
		Lock: LockConfig{
			Backend:       "rowflag",
			Timeout:       10 * time.Second,
			KeyWidth:      32,
			RetryBase:     10 * time.Millisecond,
			RetryMaxDelay: 500 * time.Millisecond,
			Redis: RedisConfig{
				Prefix: "sessiondb:",
				TTL:    30 * time.Second,
			},
		},
		Session: SessionConfig{
			CookieName: "sessid",
			CookiePath: "/",
			Companions: []string{"sessauth", "reload_folders", "messages"},
			MaxAge:     30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML or JSON file over Default and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var values map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &values)
	default:
		err = yaml.Unmarshal(raw, &values)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := Decode(values, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode applies values over cfg. Durations accept Go duration strings.
func Decode(values map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	var errs []error
	if c.Database.Driver == "" {
		errs = append(errs, errors.New("database.driver is required"))
	}
	if c.Database.Table == "" {
		errs = append(errs, errors.New("database.table is required"))
	}
	if c.Lock.Timeout < 0 {
		errs = append(errs, errors.New("lock.timeout must not be negative"))
	}
	if c.Lock.KeyWidth != 32 && c.Lock.KeyWidth != 64 {
		errs = append(errs, fmt.Errorf("lock.key_width must be 32 or 64, got %d", c.Lock.KeyWidth))
	}
	if c.Lock.Retry && (c.Lock.RetryBase <= 0 || c.Lock.RetryMaxDelay < c.Lock.RetryBase) {
		errs = append(errs, errors.New("lock.retry_base must be positive and not above lock.retry_max_delay"))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name is required"))
	}
	if c.Session.Key != "" {
		if _, err := c.Session.KeyBytes(); err != nil {
			errs = append(errs, err)
		}
	}
	for i, k := range c.Session.FallbackKeys {
		if _, err := decodeKey(k); err != nil {
			errs = append(errs, fmt.Errorf("session.fallback_keys[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// KeyBytes decodes Session.Key.
func (s SessionConfig) KeyBytes() ([]byte, error) {
	key, err := decodeKey(s.Key)
	if err != nil {
		return nil, fmt.Errorf("session.key: %w", err)
	}
	return key, nil
}

// FallbackKeyBytes decodes Session.FallbackKeys.
func (s SessionConfig) FallbackKeyBytes() ([][]byte, error) {
	keys := make([][]byte, 0, len(s.FallbackKeys))
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, fmt.Errorf("session.fallback_keys[%d]: %w", i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("key must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
