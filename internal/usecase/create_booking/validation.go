package create_booking

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
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id is required", ErrInvalidInput)
	}
	if req.LockID == "" {
		return fmt.Errorf("%w: lock_id is required", ErrInvalidInput)
	}
	if req.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	if req.VisitorCount < domain.MinVisitorCount || req.VisitorCount > domain.MaxVisitorCount {
		return fmt.Errorf("%w: visitor_count must be between %d and %d",
			ErrInvalidInput, domain.MinVisitorCount, domain.MaxVisitorCount)
	}
	if req.PackageSubscriptionID != nil && *req.PackageSubscriptionID <= 0 {
		return fmt.Errorf("%w: package_subscription_id must be positive", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
