// Package tests holds fakes shared by the package tests.
package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"parcel/internal/domain"
	"parcel/internal/redis"
)

// ──────────────────────────────────────────────
// MOCK ROLE CACHE
// ──────────────────────────────────────────────

// MockRoleCache is a mock implementation of RoleCacheInterface.
type MockRoleCache struct {
	mu    sync.RWMutex
	roles map[string]domain.UserRole

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
}

// NewMockRoleCache creates a new mock role cache.
func NewMockRoleCache() *MockRoleCache {
	return &MockRoleCache{
		roles: make(map[string]domain.UserRole),
	}
}

func (m *MockRoleCache) GetRole(ctx context.Context, email string) (domain.UserRole, bool, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return "", false, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.roles[email]
	return role, ok, nil
}

func (m *MockRoleCache) SetRole(ctx context.Context, email string, role domain.UserRole) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[email] = role
	return nil
}

func (m *MockRoleCache) InvalidateRole(ctx context.Context, email string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, email)
	return nil
}

// Cached reports whether email has a cached role (for test assertions).
func (m *MockRoleCache) Cached(email string) (domain.UserRole, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	role, ok := m.roles[email]
	return role, ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]mockLock
	seq   int

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

type mockLock struct {
	token  string
	expiry time.Time
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]mockLock),
	}
}

func (m *MockLockStore) AcquireEmailLock(ctx context.Context, email string, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return "", false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, exists := m.locks[email]; exists && time.Now().Before(l.expiry) {
		return "", false, nil // Lock still held.
	}

	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.locks[email] = mockLock{token: token, expiry: time.Now().Add(ttl)}
	return token, true, nil
}

func (m *MockLockStore) ReleaseEmailLock(ctx context.Context, email, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, exists := m.locks[email]; exists && l.token == token {
		delete(m.locks, email)
	}
	return nil
}

// IsLocked checks if an email is locked (for test assertions).
func (m *MockLockStore) IsLocked(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, exists := m.locks[email]
	return exists && time.Now().Before(l.expiry)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock card processor.
type MockGateway struct {
	// CreateFunc overrides the default behavior when set.
	CreateFunc func(ctx context.Context, amount int64) (string, error)

	// Counters
	CreateCallCount int32
	LastAmount      atomic.Int64
}

// NewMockGateway creates a gateway that returns a fixed client secret.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.LastAmount.Store(amount)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, amount)
	}
	return "pi_test_secret_123", nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockStore   = errors.New("mock: store unavailable")
	ErrMockGateway = errors.New("mock: card declined")
)

// Ensure mocks implement interfaces.
var (
	_ redis.RoleCacheInterface = (*MockRoleCache)(nil)
	_ redis.LockStoreInterface = (*MockLockStore)(nil)
)
