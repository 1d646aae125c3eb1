package release_lock

import (
	"context"
	"fmt"
)

// UseCase use case досрочного снятия блокировки
type UseCase struct {
	lockRepo     LockRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(lockRepo LockRepository, logger Logger) *UseCase {
	return &UseCase{
		lockRepo:     lockRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute снимает блокировку и освобождает зарезервированную вместимость.
// Операция идемпотентна: повторное снятие, снятие истекшей или несуществующей
// блокировки не являются ошибкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReleaseLock: validation failed: %v", err)
		return nil, err
	}

	affected, err := uc.lockRepo.Release(ctx, req.LockID, req.SessionID, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("ReleaseLock: failed to release lock %s: %v", req.LockID, err)
		return nil, fmt.Errorf("%w: Execute - failed to release lock: %w", ErrInternal, err)
	}

	if affected == 0 {
		uc.logger.Info("ReleaseLock: lock %s was not active, nothing to release", req.LockID)
	} else {
		uc.logger.Info("ReleaseLock: lock %s released", req.LockID)
	}

	return &Response{
		LockID:   req.LockID,
		Released: affected > 0,
	}, nil
}
