package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DeactivationLockKey = "locks:leads:deactivate"
	DefaultLockTTL      = 30 * time.Minute
)

// ErrLockHeld means another deactivation run owns the lock.
var ErrLockHeld = errors.New("deactivation run already in progress")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLock is a single-owner Redis lock taken with SET NX PX.
type RunLock struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

func NewRunLock(rdb redis.UniversalClient, key string, ttl time.Duration) *RunLock {
	if key == "" {
		key = DeactivationLockKey
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RunLock{rdb: rdb, key: key, ttl: ttl}
}

// Acquire takes the lock or returns ErrLockHeld. The returned release only
// deletes the key while it still carries this holder's token.
func (l *RunLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
	}
	return release, nil
}
