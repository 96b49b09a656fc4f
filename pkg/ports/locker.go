package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates access to a sandbox across multiple server replicas.
type DistributedLocker interface {
	// Lock acquires a lock for the given key (e.g. a sandbox id). It blocks until the lock is
	// acquired or the context is canceled. The lock expires on its own after ttl.
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
