package bookings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByGroupID(ctx context.Context, groupID string) ([]*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByTenantWithFilter(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DecrementBooked(ctx context.Context, id int64, delta int) error
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	RefundCoverage(ctx context.Context, subscriptionID, serviceID int64, qty int) error
}

// CatalogServiceClient интерфейс клиента CatalogService
type CatalogServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*catalogservice.Tenant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
