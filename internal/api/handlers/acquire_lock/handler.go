package acquire_lock

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	acquireLock "github.com/m04kA/SMC-ReservationService/internal/usecase/acquire_lock"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные параметры блокировки"
	msgSlotNotFound        = "слот не найден"
	msgCapacityUnavailable = "недостаточно свободных мест в слоте"
)

type Handler struct {
	useCase AcquireLockUseCase
	logger  Logger
}

func NewHandler(useCase AcquireLockUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/lock
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AcquireLockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/lock - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, acquireLock.ErrInvalidInput):
			h.logger.Warn("POST /bookings/lock - Invalid input: slot_id=%d, capacity=%d", req.SlotID, req.ReservedCapacity)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, acquireLock.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/lock - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, acquireLock.ErrCapacityUnavailable):
			h.logger.Warn("POST /bookings/lock - Capacity unavailable: slot_id=%d, capacity=%d", req.SlotID, req.ReservedCapacity)
			handlers.RespondError(w, http.StatusConflict, msgCapacityUnavailable)

		default:
			h.logger.Error("POST /bookings/lock - Failed to acquire lock: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/lock - Lock acquired: lock_id=%s, slot_id=%d, capacity=%d",
		result.LockID, result.SlotID, result.ReservedCapacity)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
