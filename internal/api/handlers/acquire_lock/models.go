package acquire_lock

import (
	"time"

	acquireLock "github.com/m04kA/SMC-ReservationService/internal/usecase/acquire_lock"
)

// AcquireLockRequest HTTP request model
type AcquireLockRequest struct {
	SlotID           int64  `json:"slotId"`
	ReservedCapacity int    `json:"reservedCapacity"`
	SessionID        string `json:"sessionId,omitempty"` // опционально, генерируется если пуст
}

// LockResponse HTTP response model
type LockResponse struct {
	LockID           string `json:"lockId"`
	SessionID        string `json:"sessionId"`
	SlotID           int64  `json:"slotId"`
	ReservedCapacity int    `json:"reservedCapacity"`
	ExpiresAt        string `json:"expiresAt"` // ISO 8601
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *AcquireLockRequest) ToUseCaseRequest() *acquireLock.Request {
	return &acquireLock.Request{
		SlotID:           r.SlotID,
		ReservedCapacity: r.ReservedCapacity,
		SessionID:        r.SessionID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *acquireLock.Response) *LockResponse {
	return &LockResponse{
		LockID:           resp.LockID,
		SessionID:        resp.SessionID,
		SlotID:           resp.SlotID,
		ReservedCapacity: resp.ReservedCapacity,
		ExpiresAt:        resp.ExpiresAt.Format(time.RFC3339),
		ExpiresInSeconds: resp.ExpiresInSeconds,
	}
}
