package capacity

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SubscriptionRepository интерфейс репозитория абонементов
type SubscriptionRepository interface {
	ListBalances(ctx context.Context, customerID, serviceID int64, now time.Time) ([]*domain.SubscriptionBalance, error)
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
