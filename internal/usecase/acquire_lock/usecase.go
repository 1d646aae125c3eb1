package acquire_lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
)

// UseCase use case захвата блокировки вместимости слота
// Блокировка даёт клиенту эксклюзивный резерв мест на время оформления
// бронирования и защищает от двойного бронирования
type UseCase struct {
	slotRepo     SlotRepository
	lockRepo     LockRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lockRepo LockRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		lockRepo:     lockRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет захват блокировки
// Проверка свободной вместимости и создание блокировки выполняются в одной
// сериализуемой транзакции со строчной блокировкой слота: два конкурирующих
// захвата на последние места не смогут пройти оба.
// Идемпотентность НЕ гарантируется - каждый вызов создаёт новую блокировку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AcquireLock: slot=%d, capacity=%d", req.SlotID, req.ReservedCapacity)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AcquireLock: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var created *domain.BookingLock

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокируем строку слота: конкурирующие захваты и коммиты сериализуются
		slot, err := uc.slotRepo.GetByIDForUpdate(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("AcquireLock: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("AcquireLock: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// Ленивая очистка: истёкшие блокировки этого слота удаляются при
		// каждом новом захвате, фоновый процесс не нужен
		if deleted, err := uc.lockRepo.DeleteExpiredBySlot(txCtx, req.SlotID, now); err != nil {
			uc.logger.Error("AcquireLock: failed to delete expired locks for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to delete expired locks: %w", ErrInternal, err)
		} else if deleted > 0 {
			uc.logger.Info("AcquireLock: pruned %d expired locks for slot id=%d", deleted, req.SlotID)
		}

		activeReserved, err := uc.lockRepo.SumActiveBySlot(txCtx, req.SlotID, now)
		if err != nil {
			uc.logger.Error("AcquireLock: failed to sum active locks for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to sum active locks: %w", ErrInternal, err)
		}

		free := slot.FreeCapacity(activeReserved)
		if req.ReservedCapacity > free {
			uc.logger.Warn("AcquireLock: capacity unavailable for slot id=%d: requested=%d, free=%d (booked=%d, locked=%d)",
				req.SlotID, req.ReservedCapacity, free, slot.BookedCount, activeReserved)
			return ErrCapacityUnavailable
		}

		lock := &domain.BookingLock{
			ID:               uuid.NewString(),
			SessionID:        sessionID,
			SlotID:           req.SlotID,
			ReservedCapacity: req.ReservedCapacity,
			ExpiresAt:        now.Add(domain.LockDuration),
		}

		created, err = uc.lockRepo.Create(txCtx, lock)
		if err != nil {
			uc.logger.Error("AcquireLock: failed to create lock for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to create lock: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("AcquireLock: lock id=%s created for slot=%d, capacity=%d, expires_at=%s",
		created.ID, created.SlotID, created.ReservedCapacity, created.ExpiresAt.Format("15:04:05"))

	return &Response{
		LockID:           created.ID,
		SessionID:        created.SessionID,
		SlotID:           created.SlotID,
		ReservedCapacity: created.ReservedCapacity,
		ExpiresAt:        created.ExpiresAt,
		ExpiresInSeconds: created.SecondsRemaining(now),
	}, nil
}
