package utils

import (
	"context"
	"sync"
	"time"

	"pos-backend/config"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// TokenBlocklist remembers access tokens revoked before they expire.
type TokenBlocklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewTokenBlocklist returns a Redis-backed blocklist when Redis is enabled,
// otherwise a process-local one.
func NewTokenBlocklist(cfg config.RedisConfig) (TokenBlocklist, error) {
	if !cfg.Enabled {
		return NewMemoryBlocklist(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return NewRedisBlocklist(client), nil
}

// MemoryBlocklist keeps revoked token ids in memory until they expire.
type MemoryBlocklist struct {
	tokens map[string]time.Time
	mu     sync.RWMutex
	now    func() time.Time
}

func NewMemoryBlocklist() *MemoryBlocklist {
	return &MemoryBlocklist{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (b *MemoryBlocklist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	// Clean up expired entries on each revocation
	b.cleanup()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[tokenID] = expiresAt
	return nil
}

func (b *MemoryBlocklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiresAt, exists := b.tokens[tokenID]
	if !exists {
		return false, nil
	}
	return b.now().Before(expiresAt), nil
}

// Len reports how many ids are currently tracked.
func (b *MemoryBlocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tokens)
}

func (b *MemoryBlocklist) cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, expiresAt := range b.tokens {
		if !now.Before(expiresAt) {
			delete(b.tokens, id)
		}
	}
}

// RedisBlocklist stores revoked ids as keys that expire with the token.
type RedisBlocklist struct {
	client *redis.Client
	prefix string
}

func NewRedisBlocklist(client *redis.Client) *RedisBlocklist {
	return &RedisBlocklist{client: client, prefix: "pos:revoked:"}
}

func (b *RedisBlocklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+tokenID, "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to revoke token in Redis")
	}
	return nil
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+tokenID).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check token in Redis")
	}
	return n > 0, nil
}
