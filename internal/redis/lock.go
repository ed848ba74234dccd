package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CarLockTTL is how long a car booking lock survives a crashed holder.
const CarLockTTL = 10 * time.Second

// releaseScript deletes the lock only if it still carries the caller's token.
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

func carLockKey(carID int64) string {
	return fmt.Sprintf("lock:car:%d", carID)
}

// AcquireCarLock attempts to acquire the booking lock for the given car.
// On success it returns the token needed to release it; an empty token
// means the lock is already held.
func (s *LockStore) AcquireCarLock(ctx context.Context, carID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, carLockKey(carID), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	return token, nil
}

// ReleaseCarLock releases the booking lock for the given car if token
// still owns it.
func (s *LockStore) ReleaseCarLock(ctx context.Context, carID int64, token string) error {
	return releaseScript.Run(ctx, s.client, []string{carLockKey(carID)}, token).Err()
}
