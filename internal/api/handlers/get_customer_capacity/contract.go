package get_customer_capacity

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/capacity/models"
)

type CapacityService interface {
	ResolveCustomerCapacity(ctx context.Context, customerID, serviceID int64) (*models.CustomerCapacityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
