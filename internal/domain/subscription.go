package domain

import "time"

// SubscriptionStatus represents the status of a package subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// PackageSubscription is a customer's purchased bundle of service units.
// A customer may hold several active subscriptions covering the same service;
// each is independent - coverage for one booking is capped by the single
// chosen subscription, balances are never pooled across subscriptions.
type PackageSubscription struct {
	ID         int64
	CustomerID int64
	TenantID   int64
	PackageID  int64

	Status    SubscriptionStatus
	ExpiresAt *time.Time // nil = no expiry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsUsable returns true if the subscription may supply coverage at the given instant
func (s *PackageSubscription) IsUsable(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return false
	}
	return true
}

// PackageSubscriptionUsage tracks per-service unit consumption within one
// subscription. Invariant: RemainingQuantity = OriginalQuantity - UsedQuantity,
// RemainingQuantity >= 0. The invariant is additionally enforced by the
// storage layer with a guarded UPDATE at commit time.
type PackageSubscriptionUsage struct {
	ID             int64
	SubscriptionID int64
	ServiceID      int64

	OriginalQuantity  int
	UsedQuantity      int
	RemainingQuantity int

	UpdatedAt time.Time
}

// HasRemaining returns true if at least one unit is left
func (u *PackageSubscriptionUsage) HasRemaining() bool {
	return u.RemainingQuantity > 0
}

// SubscriptionBalance is the read model for the customer capacity resolution
// helper: one usable subscription with its own remaining balance for a service.
// The aggregate total across balances is informational only.
type SubscriptionBalance struct {
	SubscriptionID   int64
	PackageID        int64
	OriginalQuantity int
	Remaining        int
	ExpiresAt        *time.Time
}
