package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultRedisTTL bounds how long a crashed holder keeps a Redis lock.
const DefaultRedisTTL = 30 * time.Second

var releaseScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLock implements the lock with SET NX PX. The value is a random token kept
// in this locker, so only the acquirer can release.
type RedisLock struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLock creates a RedisLock. Keys are prefix + Name(key).
func NewRedisLock(client backend.UniversalClient, prefix string, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisLock{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}

// Backend implements ports.Locker.
func (l *RedisLock) Backend() string { return string(BackendRedis) }

// Acquire makes one non-blocking SET NX attempt; timeout is ignored.
func (l *RedisLock) Acquire(ctx context.Context, key string, _ time.Duration) error {
	lockKey := l.prefix + Name(key)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx %s: %w", lockKey, sqlstore.Classify(err, domain.ErrLockDenied))
	}
	if !ok {
		return fmt.Errorf("redis setnx %s: %w", lockKey, domain.ErrLockDenied)
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return nil
}

// Release deletes the lock key if it still carries our token.
func (l *RedisLock) Release(ctx context.Context, key string) error {
	lockKey := l.prefix + Name(key)

	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("redis release %s: %w", lockKey, domain.ErrLockNotHeld)
	}

	n, err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Int64()
	if err != nil {
		return fmt.Errorf("redis release %s: %w", lockKey, sqlstore.Classify(err, domain.ErrLockNotHeld))
	}
	if n != 1 {
		return fmt.Errorf("redis release %s: %w", lockKey, domain.ErrLockNotHeld)
	}
	return nil
}
