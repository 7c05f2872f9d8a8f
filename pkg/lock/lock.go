// Package lock provides keyed mutual exclusion used to serialize the
// conflict-check-then-insert sequence of a booking per club.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken before the
// context or wait budget ran out.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker serializes work per key. The returned release func must be called
// exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ClubKey is the lock key shared by every booking write on a club.
func ClubKey(clubID string) string {
	return "smartclub:lock:club:" + clubID
}
