package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByServiceAndDate(ctx context.Context, tenantID, serviceID int64, date time.Time) ([]*domain.Slot, error)
}

// LockRepository интерфейс репозитория блокировок
type LockRepository interface {
	SumActiveBySlots(ctx context.Context, slotIDs []int64, now time.Time) (map[int64]int, error)
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
