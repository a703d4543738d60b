package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EmailLockPrefix namespaces registration locks.
const EmailLockPrefix = "lock:user-email:"

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireEmailLock attempts to acquire a registration lock for the given email.
// It returns the owner token when acquired, and ok=false if already held.
func (s *LockStore) AcquireEmailLock(ctx context.Context, email string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()

	ok, err = s.client.SetNX(ctx, EmailLockPrefix+email, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}

	return token, true, nil
}

// ReleaseEmailLock releases the registration lock for the given email if it
// is still owned by token. A lock that expired and was taken by another
// registration is left alone.
func (s *LockStore) ReleaseEmailLock(ctx context.Context, email, token string) error {
	return releaseScript.Run(ctx, s.client, []string{EmailLockPrefix + email}, token).Err()
}
