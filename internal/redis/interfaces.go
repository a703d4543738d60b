package redis

import (
	"context"
	"time"

	"parcel/internal/domain"
)

// RoleCacheInterface defines the interface for user role caching.
type RoleCacheInterface interface {
	GetRole(ctx context.Context, email string) (domain.UserRole, bool, error)
	SetRole(ctx context.Context, email string, role domain.UserRole) error
	InvalidateRole(ctx context.Context, email string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireEmailLock(ctx context.Context, email string, ttl time.Duration) (token string, ok bool, err error)
	ReleaseEmailLock(ctx context.Context, email, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ RoleCacheInterface = (*CacheStore)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
