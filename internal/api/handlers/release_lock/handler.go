package release_lock

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	releaseLock "github.com/m04kA/SMC-ReservationService/internal/usecase/release_lock"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSessionID   = "отсутствует sessionId"
)

type Handler struct {
	useCase ReleaseLockUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseLockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/lock/{lockId}/release
// Идемпотентно: снятие неизвестной или истекшей блокировки - не ошибка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lockID := mux.Vars(r)["lockId"]

	var req ReleaseLockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/lock/release - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &releaseLock.Request{
		LockID:    lockID,
		SessionID: req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, releaseLock.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingSessionID)

		default:
			h.logger.Error("POST /bookings/lock/release - Failed to release lock: lock_id=%s, error=%v", lockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/lock/release - lock_id=%s, released=%t", lockID, result.Released)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
