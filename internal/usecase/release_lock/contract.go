package release_lock

import (
	"context"
	"time"
)

// LockRepository интерфейс репозитория блокировок
type LockRepository interface {
	Release(ctx context.Context, lockID, sessionID string, now time.Time) (int64, error)
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
