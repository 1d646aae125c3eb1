package capacity

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/service/capacity/models"
)

// Service сервис справок о покрытии клиента абонементами
type Service struct {
	subscriptionRepo SubscriptionRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса
func NewService(subscriptionRepo SubscriptionRepository, logger Logger) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// ResolveCustomerCapacity возвращает остатки всех пригодных абонементов
// клиента по услуге. Истекшие, отменённые и исчерпанные абонементы не
// попадают в выдачу
func (s *Service) ResolveCustomerCapacity(ctx context.Context, customerID, serviceID int64) (*models.CustomerCapacityResponse, error) {
	s.logger.Info("ResolveCustomerCapacity: customer=%d, service=%d", customerID, serviceID)

	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: service_id is required", ErrInvalidInput)
	}

	balances, err := s.subscriptionRepo.ListBalances(ctx, customerID, serviceID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ResolveCustomerCapacity: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ResolveCustomerCapacity - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainBalances(customerID, serviceID, balances), nil
}
