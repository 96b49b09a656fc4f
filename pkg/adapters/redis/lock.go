package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/circuitlab/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// ErrLockAcquire is returned when the lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire distributed lock")

// unlockScript deletes the lock only if it still holds our token.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client   *backend.Client
	prefix   string
	interval time.Duration
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client:   client,
		prefix:   prefix,
		interval: 100 * time.Millisecond,
	}
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX, polling until
// it succeeds or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	acquired, err := l.try(ctx, lockKey, token, ttl)
	for err == nil && !acquired {
		timer := time.NewTimer(l.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		acquired, err = l.try(ctx, lockKey, token, ttl)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockAcquire, err)
	}

	return func(ctx context.Context) error {
		return l.client.Eval(ctx, unlockScript, []string{lockKey}, token).Err()
	}, nil
}

func (l *Locker) try(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, lockKey, token, ttl).Result()
}
