package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type subscriptionRepoMock struct {
	balances []*domain.SubscriptionBalance
}

func (m *subscriptionRepoMock) ListBalances(_ context.Context, _, _ int64, _ time.Time) ([]*domain.SubscriptionBalance, error) {
	return m.balances, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestResolveCustomerCapacity(t *testing.T) {
	repo := &subscriptionRepoMock{balances: []*domain.SubscriptionBalance{
		{SubscriptionID: 5, PackageID: 500, OriginalQuantity: 10, Remaining: 9},
		{SubscriptionID: 6, PackageID: 600, OriginalQuantity: 5, Remaining: 1},
	}}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.ResolveCustomerCapacity(context.Background(), 7, 10)
	require.NoError(t, err)

	require.Len(t, resp.Subscriptions, 2)
	// Сумма справочная: при бронировании остатки не объединяются
	assert.Equal(t, 10, resp.TotalRemaining)
	assert.Equal(t, 9, resp.Subscriptions[0].Remaining)
	assert.Equal(t, 1, resp.Subscriptions[1].Remaining)
}

func TestResolveCustomerCapacity_Empty(t *testing.T) {
	svc := NewService(&subscriptionRepoMock{}, nopLogger{})

	resp, err := svc.ResolveCustomerCapacity(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Subscriptions)
	assert.Equal(t, 0, resp.TotalRemaining)
}

func TestResolveCustomerCapacity_Validation(t *testing.T) {
	svc := NewService(&subscriptionRepoMock{}, nopLogger{})

	_, err := svc.ResolveCustomerCapacity(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ResolveCustomerCapacity(context.Background(), 7, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
