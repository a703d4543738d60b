package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"parcel/internal/domain"
)

// CacheStore handles user role caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// RoleCacheTTL bounds how long a role read can lag behind a write made by
// another process.
const RoleCacheTTL = 5 * time.Minute

// RoleCachePrefix namespaces cached roles.
const RoleCachePrefix = "cache:role:"

// GetRole retrieves a cached role. ok is false on a cache miss.
func (s *CacheStore) GetRole(ctx context.Context, email string) (role domain.UserRole, ok bool, err error) {
	value, err := s.client.Get(ctx, RoleCachePrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil // Cache miss
		}
		return "", false, err
	}
	return domain.UserRole(value), true, nil
}

// SetRole stores a role in cache.
func (s *CacheStore) SetRole(ctx context.Context, email string, role domain.UserRole) error {
	return s.client.Set(ctx, RoleCachePrefix+email, string(role), RoleCacheTTL).Err()
}

// InvalidateRole removes a role from cache.
func (s *CacheStore) InvalidateRole(ctx context.Context, email string) error {
	return s.client.Del(ctx, RoleCachePrefix+email).Err()
}
