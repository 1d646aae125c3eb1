package validate_lock

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	validateLock "github.com/m04kA/SMC-ReservationService/internal/usecase/validate_lock"
)

const (
	msgMissingSessionID = "отсутствует параметр sessionId"
	msgLockNotFound     = "блокировка не найдена"
)

type Handler struct {
	useCase ValidateLockUseCase
	logger  Logger
}

func NewHandler(useCase ValidateLockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/lock/{lockId}/validate?sessionId=...
// Keepalive-проверка блокировки: не продлевает срок действия
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lockID := mux.Vars(r)["lockId"]
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &validateLock.Request{
		LockID:    lockID,
		SessionID: sessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, validateLock.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingSessionID)

		case errors.Is(err, validateLock.ErrLockNotFound):
			h.logger.Warn("GET /bookings/lock/validate - Lock not found: lock_id=%s", lockID)
			handlers.RespondNotFound(w, msgLockNotFound)

		default:
			h.logger.Error("GET /bookings/lock/validate - Failed to validate lock: lock_id=%s, error=%v", lockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Истёкшая или освобождённая блокировка - это 409: держатель должен
	// перезапустить выбор слота, а не продолжать оформление
	if !result.Valid {
		handlers.RespondJSON(w, http.StatusConflict, FromUseCaseResponse(result))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
