package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные параметры бронирования"
	msgLockNotFound         = "блокировка не найдена"
	msgLockExpired          = "блокировка истекла, выберите слот заново"
	msgSlotNotFound         = "слот не найден"
	msgSlotMismatch         = "слот не относится к выбранной услуге"
	msgServiceNotFound      = "услуга не найдена"
	msgServiceInactive      = "услуга недоступна для бронирования"
	msgSubscriptionNotFound = "абонемент не найден"
	msgSubscriptionUnusable = "абонемент неактивен или истёк"
	msgInsufficientBalance  = "недостаточно единиц на абонементе"
	msgCapacityExceeded     = "вместимость слота исчерпана"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/create
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/create - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/create - Invalid input: user_id=%d, lock_id=%s", req.UserID, req.LockID)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrLockNotFound):
			h.logger.Warn("POST /bookings/create - Lock not found: lock_id=%s", req.LockID)
			handlers.RespondNotFound(w, msgLockNotFound)

		case errors.Is(err, createBooking.ErrLockExpired):
			h.logger.Warn("POST /bookings/create - Lock expired: lock_id=%s, user_id=%d", req.LockID, req.UserID)
			handlers.RespondError(w, http.StatusConflict, msgLockExpired)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings/create - Slot not found: lock_id=%s", req.LockID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotMismatch):
			h.logger.Warn("POST /bookings/create - Slot mismatch: lock_id=%s, service_id=%d", req.LockID, req.ServiceID)
			handlers.RespondBadRequest(w, msgSlotMismatch)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/create - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings/create - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrSubscriptionNotFound):
			h.logger.Warn("POST /bookings/create - Subscription not found: user_id=%d", req.UserID)
			handlers.RespondNotFound(w, msgSubscriptionNotFound)

		case errors.Is(err, createBooking.ErrSubscriptionNotUsable):
			h.logger.Warn("POST /bookings/create - Subscription not usable: user_id=%d", req.UserID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgSubscriptionUnusable)

		case errors.Is(err, createBooking.ErrInsufficientBalance):
			h.logger.Warn("POST /bookings/create - Insufficient balance: user_id=%d", req.UserID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInsufficientBalance)

		case errors.Is(err, createBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings/create - Capacity exceeded: lock_id=%s", req.LockID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		default:
			h.logger.Error("POST /bookings/create - Failed to create booking: user_id=%d, lock_id=%s, error=%v",
				req.UserID, req.LockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/create - Booking created: booking_id=%d, user_id=%d, covered=%d, paid=%d",
		result.BookingID, req.UserID, result.PackageCoveredQuantity, result.PaidQuantity)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
