package domain

import "time"

// BookingLock is a short-lived exclusive hold on slot capacity, created when a
// customer selects a slot and held while they complete checkout. A lock is
// identified by ID plus SessionID: the holder must present both to validate or
// release it. Expiry is lazy - locks are never swept by a background job, every
// read that cares checks ExpiresAt itself.
type BookingLock struct {
	ID        string // UUID
	SessionID string // UUID, issued together with the lock
	SlotID    int64

	ReservedCapacity int

	ExpiresAt  time.Time
	ReleasedAt *time.Time

	CreatedAt time.Time
}

// IsExpired returns true if the lock's lifetime has passed
func (l *BookingLock) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// IsReleased returns true if the lock was explicitly released or consumed by a commit
func (l *BookingLock) IsReleased() bool {
	return l.ReleasedAt != nil
}

// IsActive returns true if the lock still reserves capacity
func (l *BookingLock) IsActive(now time.Time) bool {
	return !l.IsReleased() && !l.IsExpired(now)
}

// SecondsRemaining returns the whole seconds left until expiry, never negative.
// Validation reports this value but does not extend the lock.
func (l *BookingLock) SecondsRemaining(now time.Time) int {
	remaining := l.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining / time.Second)
}
