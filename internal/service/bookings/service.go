package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	catalogClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo      BookingRepository
	slotRepo         SlotRepository
	subscriptionRepo SubscriptionRepository
	catalogClient    CatalogServiceClient
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	subscriptionRepo SubscriptionRepository,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		slotRepo:         slotRepo,
		subscriptionRepo: subscriptionRepo,
		catalogClient:    catalogClient,
		txManager:        txManager,
		logger:           logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является менеджером тенанта
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetByGroupID получает все бронирования группы (созданные одним bulk-запросом)
// Доступ вычисляется по первому бронированию - группа всегда принадлежит
// одному пользователю и одному тенанту
func (s *Service) GetByGroupID(ctx context.Context, groupID string, userID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetByGroupID: fetching group=%s for user=%d", groupID, userID)

	bookings, err := s.bookingRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		s.logger.Error("GetByGroupID: repository error for group=%s: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetByGroupID - repository error: %w", ErrInternal, err)
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	if err := s.checkUserAccess(ctx, bookings[0], userID); err != nil {
		s.logger.Warn("GetByGroupID: access denied for user=%d to group=%s", userID, groupID)
		return nil, err
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetTenantBookings получает бронирования тенанта с гибкой фильтрацией
// Поддерживает фильтр по услуге, периоду, статусу и включение неактивных
// бронирований. Доступно только менеджерам тенанта
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTenantBookings: fetching bookings for tenant=%d, user=%d", req.TenantID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.TenantID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и возвращает занятую вместимость слоту.
// Пользователь может отменить только своё бронирование (cancelled_by_user),
// менеджер тенанта - любое бронирование тенанта (cancelled_by_tenant).
// Покрытие абонемента возвращается на баланс в той же транзакции
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// Определяем статус отмены в зависимости от прав доступа
	var cancelStatus domain.BookingStatus
	if booking.UserID == req.UserID {
		cancelStatus = domain.StatusCancelledByUser
	} else {
		if err := s.checkManagerAccess(ctx, booking.TenantID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByTenant
	}

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
			// Ноль затронутых строк - статус успел измениться параллельной
			// отменой, компенсации места и покрытия не выполняются
			if errors.Is(err, bookingRepo.ErrBookingNotCancellable) {
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		// Возвращаем места слоту
		if err := s.slotRepo.DecrementBooked(ctx, booking.SlotID, booking.VisitorCount); err != nil {
			return fmt.Errorf("%w: Cancel - failed to restore slot capacity: %w", ErrInternal, err)
		}

		// Возвращаем списанное покрытие абонемента
		if booking.HasCoverage() {
			if err := s.subscriptionRepo.RefundCoverage(ctx, *booking.PackageSubscriptionID, booking.ServiceID, booking.PackageCoveredQuantity); err != nil {
				return fmt.Errorf("%w: Cancel - failed to refund coverage: %w", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, booking.TenantID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером тенанта
func (s *Service) checkManagerAccess(ctx context.Context, tenantID int64, userID int64) error {
	tenant, err := s.catalogClient.GetTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrTenantNotFound) {
			s.logger.Warn("checkManagerAccess: tenant id=%d not found", tenantID)
			return ErrTenantNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get tenant id=%d: %v", tenantID, err)
		return fmt.Errorf("%w: checkManagerAccess - catalog request failed: %w", ErrInternal, err)
	}

	for _, managerID := range tenant.ManagerIDs {
		if managerID == userID {
			return nil
		}
	}

	return ErrAccessDenied
}
