package release_lock

import (
	"context"

	releaseLock "github.com/m04kA/SMC-ReservationService/internal/usecase/release_lock"
)

type ReleaseLockUseCase interface {
	Execute(ctx context.Context, req *releaseLock.Request) (*releaseLock.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
