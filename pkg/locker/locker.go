// Package locker coordinates one-off work, such as seeding the course index,
// across service replicas.
package locker

import (
	"context"
	"time"
)

// DistributedLocker is a non-blocking lock shared by every replica.
// Implementations must be safe for concurrent use.
//
//	acquired, err := lk.Acquire(ctx, "seed:lock", 2*time.Minute)
//	if err != nil || !acquired {
//	    return err
//	}
//	defer lk.Release(ctx, "seed:lock")
type DistributedLocker interface {
	// Acquire takes the lock without waiting. It returns false, nil when
	// another holder has it. The lock expires after ttl if never released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops the lock if this instance holds it and is a no-op otherwise.
	Release(ctx context.Context, key string) error
}
