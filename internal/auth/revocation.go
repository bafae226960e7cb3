package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// RevocationStore records credentials that were logged out before they expired.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisCommander is the subset of the go-redis client used for revocation.
type RedisCommander interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

const revokedKeyPrefix = "revoked:jti:"

// RedisRevocationStore keeps revoked token ids as expiring Redis keys.
type RedisRevocationStore struct {
	client RedisCommander
	cb     *gobreaker.CircuitBreaker
}

// NewRedisRevocationStore builds the store. cb may be nil.
func NewRedisRevocationStore(client RedisCommander, cb *gobreaker.CircuitBreaker) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, cb: cb}
}

// Revoke stores jti until the credential would have expired anyway.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if jti == "" || ttl <= 0 {
		return nil
	}
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
	})
	return err
}

// IsRevoked reports whether jti was revoked. Errors must be treated as revoked by callers.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	res, err := s.execute(func() (interface{}, error) {
		return s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	})
	if err != nil {
		return true, err
	}
	count, ok := res.(int64)
	if !ok {
		return true, errors.New("unexpected redis reply")
	}
	return count > 0, nil
}

func (s *RedisRevocationStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	if s.cb == nil {
		return fn()
	}
	return s.cb.Execute(fn)
}

// MemoryRevocationStore is a process-local denylist for single-instance deployments.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore builds an empty denylist.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke adds jti and prunes entries that already expired.
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until.After(now) {
		s.revoked[jti] = until
	}
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	return nil
}

// IsRevoked reports whether jti is on the denylist and not yet expired.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, found := s.revoked[jti]
	return found && exp.After(s.now()), nil
}
