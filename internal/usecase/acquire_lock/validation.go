package acquire_lock

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.ReservedCapacity < domain.MinReservedCapacity {
		return fmt.Errorf("%w: reservedCapacity must be at least %d", ErrInvalidInput, domain.MinReservedCapacity)
	}

	if req.ReservedCapacity > domain.MaxReservedCapacity {
		return fmt.Errorf("%w: reservedCapacity must not exceed %d", ErrInvalidInput, domain.MaxReservedCapacity)
	}

	return nil
}
