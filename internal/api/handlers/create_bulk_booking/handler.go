package create_bulk_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	createBulkBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_bulk_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные параметры группового бронирования"
	msgLockNotFound         = "одна из блокировок не найдена"
	msgLockExpired          = "одна из блокировок истекла, выберите слоты заново"
	msgSlotNotFound         = "один из слотов не найден"
	msgSlotMismatch         = "слот не относится к выбранной услуге"
	msgServiceNotFound      = "одна из услуг не найдена"
	msgServiceInactive      = "одна из услуг недоступна для бронирования"
	msgSubscriptionNotFound = "абонемент не найден"
	msgSubscriptionUnusable = "абонемент неактивен или истёк"
	msgInsufficientBalance  = "недостаточно единиц на абонементе"
	msgCapacityExceeded     = "вместимость одного из слотов исчерпана"
)

type Handler struct {
	useCase CreateBulkBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBulkBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/create-bulk
// Фиксация атомарна: отказ любого элемента откатывает всю группу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBulkBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/create-bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBulkBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/create-bulk - Invalid input: user_id=%d, items=%d", req.UserID, len(req.Items))
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBulkBooking.ErrLockNotFound):
			h.logger.Warn("POST /bookings/create-bulk - Lock not found: user_id=%d", req.UserID)
			handlers.RespondNotFound(w, msgLockNotFound)

		case errors.Is(err, createBulkBooking.ErrLockExpired):
			h.logger.Warn("POST /bookings/create-bulk - Lock expired: user_id=%d", req.UserID)
			handlers.RespondError(w, http.StatusConflict, msgLockExpired)

		case errors.Is(err, createBulkBooking.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBulkBooking.ErrSlotMismatch):
			handlers.RespondBadRequest(w, msgSlotMismatch)

		case errors.Is(err, createBulkBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBulkBooking.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBulkBooking.ErrSubscriptionNotFound):
			handlers.RespondNotFound(w, msgSubscriptionNotFound)

		case errors.Is(err, createBulkBooking.ErrSubscriptionNotUsable):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgSubscriptionUnusable)

		case errors.Is(err, createBulkBooking.ErrInsufficientBalance):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInsufficientBalance)

		case errors.Is(err, createBulkBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings/create-bulk - Capacity exceeded: user_id=%d", req.UserID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		default:
			h.logger.Error("POST /bookings/create-bulk - Failed to create bookings: user_id=%d, error=%v", req.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/create-bulk - Group created: group_id=%s, user_id=%d, bookings=%d",
		result.BookingGroupID, req.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
