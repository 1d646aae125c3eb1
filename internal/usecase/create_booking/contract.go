package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Slot, error)
	IncrementBooked(ctx context.Context, id int64, delta int) error
}

// LockRepository интерфейс репозитория блокировок
type LockRepository interface {
	GetByIDAndSessionForUpdate(ctx context.Context, lockID, sessionID string) (*domain.BookingLock, error)
	Release(ctx context.Context, lockID, sessionID string, now time.Time) (int64, error)
}

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.PackageSubscription, error)
	GetUsageForUpdate(ctx context.Context, subscriptionID, serviceID int64) (*domain.PackageSubscriptionUsage, error)
	ApplyCoverage(ctx context.Context, subscriptionID, serviceID int64, covered int) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// CatalogClient клиент CatalogService для получения данных об услуге
type CatalogClient interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*catalogservice.Service, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider абстракция времени для тестируемости
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
