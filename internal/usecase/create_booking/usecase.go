package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	lockRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/lock"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	subscriptionRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/subscription"
)

// UseCase use case фиксации бронирования под действующей блокировкой
type UseCase struct {
	slotRepo         SlotRepository
	lockRepo         LockRepository
	subscriptionRepo SubscriptionRepository
	bookingRepo      BookingRepository
	catalogClient    CatalogClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	lockRepo LockRepository,
	subscriptionRepo SubscriptionRepository,
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:         slotRepo,
		lockRepo:         lockRepo,
		subscriptionRepo: subscriptionRepo,
		bookingRepo:      bookingRepo,
		catalogClient:    catalogClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute фиксирует бронирование. Блокировка перепроверяется ВНУТРИ
// транзакции фиксации: между опросами keepalive и этим запросом она могла
// истечь, и тогда фиксация отклоняется с ErrLockExpired. Успешная фиксация
// списывает покрытие абонемента, увеличивает booked_count слота и потребляет
// собственную блокировку - всё в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, lock=%s, visitors=%d", req.UserID, req.LockID, req.VisitorCount)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// Поход в CatalogService за ценой - вне транзакции, чтобы не держать
	// строчные блокировки на время сетевого вызова
	service, err := uc.getService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	var booking *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err = uc.commit(ctx, req, service)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking %d created, covered=%d, paid=%d, total=%.2f",
		booking.ID, booking.PackageCoveredQuantity, booking.PaidQuantity, booking.TotalPrice)

	return &Response{
		BookingID:              booking.ID,
		SlotID:                 booking.SlotID,
		BookingDate:            booking.BookingDate,
		StartTime:              booking.StartTime.String(),
		EndTime:                booking.EndTime.String(),
		VisitorCount:           booking.VisitorCount,
		PackageCoveredQuantity: booking.PackageCoveredQuantity,
		PaidQuantity:           booking.PaidQuantity,
		UnitPrice:              booking.UnitPrice,
		TotalPrice:             booking.TotalPrice,
		Status:                 booking.Status,
	}, nil
}

func (uc *UseCase) getService(ctx context.Context, tenantID, serviceID int64) (*catalogservice.Service, error) {
	service, err := uc.catalogClient.GetService(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, catalogservice.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service %d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: getService - catalog request failed: %w", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	return service, nil
}

// commit выполняет все проверки и записи внутри транзакции
func (uc *UseCase) commit(ctx context.Context, req *Request, service *catalogservice.Service) (*domain.Booking, error) {
	now := uc.timeProvider.Now()

	lock, err := uc.lockRepo.GetByIDAndSessionForUpdate(ctx, req.LockID, req.SessionID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			return nil, ErrLockNotFound
		}
		return nil, fmt.Errorf("%w: commit - failed to get lock: %w", ErrInternal, err)
	}

	// Ленивое истечение: запись могла остаться в базе, но права на вместимость
	// она больше не даёт
	if !lock.IsActive(now) {
		uc.logger.Warn("CreateBooking: lock %s is expired or released", req.LockID)
		return nil, ErrLockExpired
	}

	if req.VisitorCount > lock.ReservedCapacity {
		return nil, fmt.Errorf("%w: visitor_count %d exceeds reserved capacity %d",
			ErrInvalidInput, req.VisitorCount, lock.ReservedCapacity)
	}

	slot, err := uc.slotRepo.GetByIDForUpdate(ctx, lock.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: commit - failed to get slot: %w", ErrInternal, err)
	}

	if slot.TenantID != req.TenantID || slot.ServiceID != req.ServiceID {
		return nil, ErrSlotMismatch
	}

	covered, paid, err := uc.applyCoverage(ctx, req, now)
	if err != nil {
		return nil, err
	}

	totalPrice := float64(paid) * service.UnitPrice

	// Гарантированный инкремент: условие booked_count + delta <= original_capacity
	// проверяется на стороне базы
	if err := uc.slotRepo.IncrementBooked(ctx, slot.ID, req.VisitorCount); err != nil {
		if errors.Is(err, slotRepo.ErrCapacityExceeded) {
			return nil, ErrCapacityExceeded
		}
		return nil, fmt.Errorf("%w: commit - failed to increment booked count: %w", ErrInternal, err)
	}

	// Блокировка потребляется фиксацией и больше не резервирует вместимость
	if _, err := uc.lockRepo.Release(ctx, req.LockID, req.SessionID, now); err != nil {
		return nil, fmt.Errorf("%w: commit - failed to consume lock: %w", ErrInternal, err)
	}

	booking := &domain.Booking{
		UserID:                 req.UserID,
		TenantID:               req.TenantID,
		ServiceID:              req.ServiceID,
		SlotID:                 slot.ID,
		BookingDate:            slot.SlotDate,
		StartTime:              slot.StartTime,
		EndTime:                slot.EndTime,
		VisitorCount:           req.VisitorCount,
		PackageCoveredQuantity: covered,
		PaidQuantity:           paid,
		UnitPrice:              service.UnitPrice,
		TotalPrice:             totalPrice,
		PackageSubscriptionID:  req.PackageSubscriptionID,
		Status:                 domain.StatusConfirmed,
		ServiceName:            service.Name,
		Notes:                  req.Notes,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%w: commit - failed to create booking: %w", ErrInternal, err)
	}

	return created, nil
}

// applyCoverage списывает покрытие с выбранного абонемента.
// Без абонемента вся стоимость платная. Покрытие ограничено остатком одного
// абонемента: covered = min(visitor_count, remaining)
func (uc *UseCase) applyCoverage(ctx context.Context, req *Request, now time.Time) (covered, paid int, err error) {
	if req.PackageSubscriptionID == nil {
		return 0, req.VisitorCount, nil
	}

	subID := *req.PackageSubscriptionID

	sub, err := uc.subscriptionRepo.GetByID(ctx, subID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
			return 0, 0, ErrSubscriptionNotFound
		}
		return 0, 0, fmt.Errorf("%w: applyCoverage - failed to get subscription: %w", ErrInternal, err)
	}

	if sub.CustomerID != req.UserID {
		return 0, 0, ErrSubscriptionNotFound
	}
	if !sub.IsUsable(now) {
		return 0, 0, ErrSubscriptionNotUsable
	}

	usage, err := uc.subscriptionRepo.GetUsageForUpdate(ctx, subID, req.ServiceID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrUsageNotFound) {
			// Абонемент не распространяется на эту услугу - всё платно
			return 0, req.VisitorCount, nil
		}
		return 0, 0, fmt.Errorf("%w: applyCoverage - failed to get usage: %w", ErrInternal, err)
	}

	covered, paid = splitCoverage(req.VisitorCount, usage.RemainingQuantity)
	if covered == 0 {
		return covered, paid, nil
	}

	// Гарантированное списание: условие remaining_quantity >= covered
	// перепроверяется базой, гонка даёт ErrInsufficientBalance
	if err := uc.subscriptionRepo.ApplyCoverage(ctx, subID, req.ServiceID, covered); err != nil {
		if errors.Is(err, subscriptionRepo.ErrInsufficientBalance) {
			return 0, 0, ErrInsufficientBalance
		}
		return 0, 0, fmt.Errorf("%w: applyCoverage - failed to apply coverage: %w", ErrInternal, err)
	}

	return covered, paid, nil
}
