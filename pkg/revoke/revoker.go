package revoke

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go-nippo-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked_token:"

// Digest returns the canonical digest under which a bearer token is
// denylisted. Raw tokens are never stored.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type redisRevoker struct {
	client *goredis.Client
}

// NewRedis returns a revoker backed by Redis. Entries expire with the token
// itself, so the denylist stays bounded.
func NewRedis(client *goredis.Client) domain.TokenRevoker {
	return &redisRevoker{client: client}
}

func (r *redisRevoker) Revoke(ctx context.Context, digest string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.Set(ctx, keyPrefix+digest, "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, digest string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+digest).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type memoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemory returns an in-process fallback revoker for deployments without
// Redis. Revocations do not survive a restart and are not shared between
// replicas.
func NewMemory() domain.TokenRevoker {
	return &memoryRevoker{entries: make(map[string]time.Time)}
}

func (m *memoryRevoker) Revoke(_ context.Context, digest string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.entries[digest] = time.Now().Add(ttl)
	return nil
}

func (m *memoryRevoker) IsRevoked(_ context.Context, digest string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[digest]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(m.entries, digest)
		return false, nil
	}
	return true, nil
}

func (m *memoryRevoker) sweepLocked() {
	now := time.Now()
	for digest, exp := range m.entries {
		if now.After(exp) {
			delete(m.entries, digest)
		}
	}
}
