package validate_lock

import (
	validateLock "github.com/m04kA/SMC-ReservationService/internal/usecase/validate_lock"
)

// LockStatusResponse HTTP response model
type LockStatusResponse struct {
	LockID           string `json:"lockId"`
	Valid            bool   `json:"valid"`
	SecondsRemaining int    `json:"secondsRemaining"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateLock.Response) *LockStatusResponse {
	return &LockStatusResponse{
		LockID:           resp.LockID,
		Valid:            resp.Valid,
		SecondsRemaining: resp.SecondsRemaining,
	}
}
