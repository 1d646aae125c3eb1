package release_lock

import (
	releaseLock "github.com/m04kA/SMC-ReservationService/internal/usecase/release_lock"
)

// ReleaseLockRequest HTTP request model
type ReleaseLockRequest struct {
	SessionID string `json:"sessionId"`
}

// ReleaseLockResponse HTTP response model
// Released = false означает, что активной блокировки с такой парой
// lock_id + session_id не было (уже снята, истекла или не существовала)
type ReleaseLockResponse struct {
	LockID   string `json:"lockId"`
	Released bool   `json:"released"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *releaseLock.Response) *ReleaseLockResponse {
	return &ReleaseLockResponse{
		LockID:   resp.LockID,
		Released: resp.Released,
	}
}
