package validate_lock

import (
	"context"

	validateLock "github.com/m04kA/SMC-ReservationService/internal/usecase/validate_lock"
)

type ValidateLockUseCase interface {
	Execute(ctx context.Context, req *validateLock.Request) (*validateLock.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
