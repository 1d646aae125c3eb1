package get_customer_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	capacityService "github.com/m04kA/SMC-ReservationService/internal/service/capacity"
)

const (
	msgInvalidCustomerID = "некорректный идентификатор клиента"
	msgInvalidServiceID  = "некорректный идентификатор услуги"
	msgInvalidInput      = "некорректные параметры запроса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service CapacityService
	logger  Logger
}

func NewHandler(service CapacityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/services/{serviceId}/capacity
// Справка об остатках абонементов клиента по услуге.
// Клиент может смотреть только свои остатки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	authUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /customers/capacity - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if customerID != authUserID {
		h.logger.Warn("GET /customers/capacity - Access denied: customer=%d, auth=%d", customerID, authUserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.ResolveCustomerCapacity(r.Context(), customerID, serviceID)
	if err != nil {
		switch {
		case errors.Is(err, capacityService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /customers/capacity - Failed to resolve capacity: customer_id=%d, service_id=%d, error=%v",
				customerID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
