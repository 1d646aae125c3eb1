package create_bulk_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	lockRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/lock"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	subscriptionRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/subscription"
)

// UseCase use case группового бронирования: несколько услуг одним чеком.
// Каждый элемент приходит со своей блокировкой; фиксация атомарна - отказ
// любого элемента откатывает всю группу
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

// Execute фиксирует группу бронирований в одной сериализуемой транзакции.
// Цены всех услуг запрашиваются у CatalogService ДО открытия транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBulkBooking: user=%d, items=%d", req.UserID, len(req.Items))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBulkBooking: validation failed: %v", err)
		return nil, err
	}

	services, err := uc.fetchServices(ctx, req)
	if err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	var results []BookingResult
	var totalPrice float64

	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// DoSerializable может перезапустить замыкание после конфликта
		// сериализации: накопленное откатившейся попыткой сбрасывается
		results = make([]BookingResult, 0, len(req.Items))
		totalPrice = 0

		now := uc.timeProvider.Now()
		for i := range req.Items {
			item := &req.Items[i]
			booking, err := uc.commitItem(ctx, req, item, services[item.ServiceID], groupID, now)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results = append(results, BookingResult{
				BookingID:              booking.ID,
				ServiceID:              booking.ServiceID,
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
			})
			totalPrice += booking.TotalPrice
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBulkBooking: group %s created, bookings=%d, total=%.2f", groupID, len(results), totalPrice)

	return &Response{
		BookingGroupID: groupID,
		Bookings:       results,
		TotalPrice:     totalPrice,
	}, nil
}

// fetchServices собирает уникальные услуги группы из CatalogService
func (uc *UseCase) fetchServices(ctx context.Context, req *Request) (map[int64]*catalogservice.Service, error) {
	services := make(map[int64]*catalogservice.Service)
	for _, item := range req.Items {
		if _, ok := services[item.ServiceID]; ok {
			continue
		}
		service, err := uc.catalogClient.GetService(ctx, req.TenantID, item.ServiceID)
		if err != nil {
			if errors.Is(err, catalogservice.ErrServiceNotFound) {
				return nil, fmt.Errorf("%w: service %d", ErrServiceNotFound, item.ServiceID)
			}
			uc.logger.Error("CreateBulkBooking: failed to get service %d: %v", item.ServiceID, err)
			return nil, fmt.Errorf("%w: fetchServices - catalog request failed: %w", ErrInternal, err)
		}
		if !service.IsActive {
			return nil, fmt.Errorf("%w: service %d", ErrServiceInactive, item.ServiceID)
		}
		services[item.ServiceID] = service
	}
	return services, nil
}

// commitItem повторяет шаги одиночной фиксации для одного элемента группы
func (uc *UseCase) commitItem(
	ctx context.Context,
	req *Request,
	item *Item,
	service *catalogservice.Service,
	groupID string,
	now time.Time,
) (*domain.Booking, error) {
	lock, err := uc.lockRepo.GetByIDAndSessionForUpdate(ctx, item.LockID, item.SessionID)
	if err != nil {
		if errors.Is(err, lockRepo.ErrLockNotFound) {
			return nil, ErrLockNotFound
		}
		return nil, fmt.Errorf("%w: commitItem - failed to get lock: %w", ErrInternal, err)
	}

	if !lock.IsActive(now) {
		return nil, ErrLockExpired
	}

	if item.VisitorCount > lock.ReservedCapacity {
		return nil, fmt.Errorf("%w: visitor_count %d exceeds reserved capacity %d",
			ErrInvalidInput, item.VisitorCount, lock.ReservedCapacity)
	}

	slot, err := uc.slotRepo.GetByIDForUpdate(ctx, lock.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: commitItem - failed to get slot: %w", ErrInternal, err)
	}

	if slot.TenantID != req.TenantID || slot.ServiceID != item.ServiceID {
		return nil, ErrSlotMismatch
	}

	covered, paid, err := uc.applyCoverage(ctx, req.UserID, item, now)
	if err != nil {
		return nil, err
	}

	if err := uc.slotRepo.IncrementBooked(ctx, slot.ID, item.VisitorCount); err != nil {
		if errors.Is(err, slotRepo.ErrCapacityExceeded) {
			return nil, ErrCapacityExceeded
		}
		return nil, fmt.Errorf("%w: commitItem - failed to increment booked count: %w", ErrInternal, err)
	}

	if _, err := uc.lockRepo.Release(ctx, item.LockID, item.SessionID, now); err != nil {
		return nil, fmt.Errorf("%w: commitItem - failed to consume lock: %w", ErrInternal, err)
	}

	booking := &domain.Booking{
		UserID:                 req.UserID,
		TenantID:               req.TenantID,
		ServiceID:              item.ServiceID,
		SlotID:                 slot.ID,
		BookingDate:            slot.SlotDate,
		StartTime:              slot.StartTime,
		EndTime:                slot.EndTime,
		VisitorCount:           item.VisitorCount,
		PackageCoveredQuantity: covered,
		PaidQuantity:           paid,
		UnitPrice:              service.UnitPrice,
		TotalPrice:             float64(paid) * service.UnitPrice,
		PackageSubscriptionID:  item.PackageSubscriptionID,
		BookingGroupID:         &groupID,
		Status:                 domain.StatusConfirmed,
		ServiceName:            service.Name,
		Notes:                  item.Notes,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("%w: commitItem - failed to create booking: %w", ErrInternal, err)
	}

	return created, nil
}

func (uc *UseCase) applyCoverage(ctx context.Context, userID int64, item *Item, now time.Time) (covered, paid int, err error) {
	if item.PackageSubscriptionID == nil {
		return 0, item.VisitorCount, nil
	}

	subID := *item.PackageSubscriptionID

	sub, err := uc.subscriptionRepo.GetByID(ctx, subID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrSubscriptionNotFound) {
			return 0, 0, ErrSubscriptionNotFound
		}
		return 0, 0, fmt.Errorf("%w: applyCoverage - failed to get subscription: %w", ErrInternal, err)
	}

	if sub.CustomerID != userID {
		return 0, 0, ErrSubscriptionNotFound
	}
	if !sub.IsUsable(now) {
		return 0, 0, ErrSubscriptionNotUsable
	}

	usage, err := uc.subscriptionRepo.GetUsageForUpdate(ctx, subID, item.ServiceID)
	if err != nil {
		if errors.Is(err, subscriptionRepo.ErrUsageNotFound) {
			return 0, item.VisitorCount, nil
		}
		return 0, 0, fmt.Errorf("%w: applyCoverage - failed to get usage: %w", ErrInternal, err)
	}

	// Покрытие ограничено остатком одного абонемента
	covered = item.VisitorCount
	if covered > usage.RemainingQuantity {
		covered = usage.RemainingQuantity
	}
	if covered < 0 {
		covered = 0
	}
	paid = item.VisitorCount - covered

	if covered == 0 {
		return covered, paid, nil
	}

	if err := uc.subscriptionRepo.ApplyCoverage(ctx, subID, item.ServiceID, covered); err != nil {
		if errors.Is(err, subscriptionRepo.ErrInsufficientBalance) {
			return 0, 0, ErrInsufficientBalance
		}
		return 0, 0, fmt.Errorf("%w: applyCoverage - failed to apply coverage: %w", ErrInternal, err)
	}

	return covered, paid, nil
}
