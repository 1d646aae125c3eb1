package get_available_slots

import (
	"context"
	"fmt"
)

// UseCase use case выдачи доступных окон сервиса на дату
type UseCase struct {
	slotRepo     SlotRepository
	lockRepo     LockRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, lockRepo LockRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		lockRepo:     lockRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает агрегированные окна: слоты сотрудников с одинаковым
// интервалом объединены, активные блокировки уменьшают доступную вместимость.
// Чтение консистентно на момент запроса, без строчных блокировок
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	slots, err := uc.slotRepo.GetByServiceAndDate(ctx, req.TenantID, req.ServiceID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get slots: %v", err)
		return nil, fmt.Errorf("%w: Execute - failed to get slots: %w", ErrInternal, err)
	}

	if len(slots) == 0 {
		return &Response{Date: req.Date, Slots: []AggregatedSlot{}}, nil
	}

	slotIDs := make([]int64, 0, len(slots))
	for _, s := range slots {
		slotIDs = append(slotIDs, s.ID)
	}

	activeLocks, err := uc.lockRepo.SumActiveBySlots(ctx, slotIDs, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to sum active locks: %v", err)
		return nil, fmt.Errorf("%w: Execute - failed to sum active locks: %w", ErrInternal, err)
	}

	return &Response{
		Date:  req.Date,
		Slots: aggregateSlots(slots, activeLocks),
	}, nil
}
