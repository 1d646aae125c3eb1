package validate_lock

import (
	"context"
	"errors"
	"fmt"

	lockRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/lock"
)

// UseCase use case проверки актуальности блокировки
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

// Execute проверяет блокировку по паре lock_id + session_id.
// Истечение срока определяется лениво по lock_expires_at: фоновых процессов
// очистки нет, поэтому истекшая блокировка может лежать в базе, но валидной
// уже не считается. Проверка НЕ продлевает срок действия
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateLock: validation failed: %v", err)
		return nil, err
	}

	lock, err := uc.lockRepo.GetByIDAndSession(ctx, req.LockID, req.SessionID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			uc.logger.Warn("ValidateLock: lock %s not found", req.LockID)
			return nil, ErrLockNotFound
		}
		uc.logger.Error("ValidateLock: failed to get lock %s: %v", req.LockID, err)
		return nil, fmt.Errorf("%w: Execute - failed to get lock: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()

	resp := &Response{
		LockID: lock.ID,
		Valid:  lock.IsActive(now),
	}
	if resp.Valid {
		resp.SecondsRemaining = lock.SecondsRemaining(now)
	}

	return resp, nil
}
