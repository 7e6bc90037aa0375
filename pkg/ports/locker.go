package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates bridge processes that share one engine
// account, so that only one of them holds the navigation session.
type DistributedLocker interface {
	// Lock blocks until key is acquired or ctx is done. The returned
	// UnlockFunc must be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
