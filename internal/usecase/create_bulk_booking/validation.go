package create_bulk_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: items must not be empty", ErrInvalidInput)
	}
	if len(req.Items) > domain.MaxBulkBookingItems {
		return fmt.Errorf("%w: items count exceeds %d", ErrInvalidInput, domain.MaxBulkBookingItems)
	}

	// Одна блокировка - одно бронирование, повторное использование внутри
	// группы запрещено
	seenLocks := make(map[string]struct{}, len(req.Items))

	for i, item := range req.Items {
		if item.ServiceID <= 0 {
			return fmt.Errorf("%w: items[%d].service_id is required", ErrInvalidInput, i)
		}
		if item.LockID == "" {
			return fmt.Errorf("%w: items[%d].lock_id is required", ErrInvalidInput, i)
		}
		if item.SessionID == "" {
			return fmt.Errorf("%w: items[%d].session_id is required", ErrInvalidInput, i)
		}
		if item.VisitorCount < domain.MinVisitorCount || item.VisitorCount > domain.MaxVisitorCount {
			return fmt.Errorf("%w: items[%d].visitor_count must be between %d and %d",
				ErrInvalidInput, i, domain.MinVisitorCount, domain.MaxVisitorCount)
		}
		if item.PackageSubscriptionID != nil && *item.PackageSubscriptionID <= 0 {
			return fmt.Errorf("%w: items[%d].package_subscription_id must be positive", ErrInvalidInput, i)
		}
		if item.Notes != nil && len(*item.Notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: items[%d].notes must not exceed %d characters", ErrInvalidInput, i, domain.MaxNotesLength)
		}
		if _, ok := seenLocks[item.LockID]; ok {
			return fmt.Errorf("%w: items[%d].lock_id is duplicated", ErrInvalidInput, i)
		}
		seenLocks[item.LockID] = struct{}{}
	}

	return nil
}
