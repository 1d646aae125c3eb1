package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type bookingRepoMock struct {
	bookings map[int64]*domain.Booking
	onCancel func()
}

func (m *bookingRepoMock) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *bookingRepoMock) GetByGroupID(_ context.Context, groupID string) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.BookingGroupID != nil && *b.BookingGroupID == groupID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *bookingRepoMock) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (m *bookingRepoMock) GetByTenantWithFilter(_ context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.TenantID != filter.TenantID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (m *bookingRepoMock) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (m *bookingRepoMock) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	if m.onCancel != nil {
		m.onCancel()
	}
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != domain.StatusConfirmed {
		return bookingRepo.ErrBookingNotCancellable
	}
	now := time.Now()
	b.Status = status
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

type slotRepoMock struct {
	booked map[int64]int
}

func (m *slotRepoMock) DecrementBooked(_ context.Context, id int64, delta int) error {
	m.booked[id] -= delta
	return nil
}

type subscriptionRepoMock struct {
	refunds map[int64]int
}

func (m *subscriptionRepoMock) RefundCoverage(_ context.Context, subscriptionID, _ int64, qty int) error {
	m.refunds[subscriptionID] += qty
	return nil
}

type catalogClientMock struct {
	tenants map[int64]*catalogservice.Tenant
}

func (m *catalogClientMock) GetTenant(_ context.Context, tenantID int64) (*catalogservice.Tenant, error) {
	t, ok := m.tenants[tenantID]
	if !ok {
		return nil, catalogservice.ErrTenantNotFound
	}
	return t, nil
}

type txManagerMock struct{}

func (m *txManagerMock) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *txManagerMock) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	bookings *bookingRepoMock
	slots    *slotRepoMock
	subs     *subscriptionRepoMock
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		bookings: &bookingRepoMock{bookings: map[int64]*domain.Booking{
			1: {
				ID:                     1,
				UserID:                 7,
				TenantID:               1,
				ServiceID:              10,
				SlotID:                 100,
				VisitorCount:           3,
				PackageCoveredQuantity: 2,
				PaidQuantity:           1,
				PackageSubscriptionID:  ptr.Ptr(int64(5)),
				Status:                 domain.StatusConfirmed,
			},
		}},
		slots: &slotRepoMock{booked: map[int64]int{100: 3}},
		subs:  &subscriptionRepoMock{refunds: map[int64]int{}},
	}
	catalog := &catalogClientMock{tenants: map[int64]*catalogservice.Tenant{
		1: {ID: 1, Name: "Acme", ManagerIDs: []int64{42}},
	}}

	f.svc = NewService(f.bookings, f.slots, f.subs, catalog, &txManagerMock{}, nopLogger{})
	return f
}

func TestGetByID_Owner(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestGetByID_Manager(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
}

func TestGetByID_Stranger(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), 1, 999)
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), 404, 7)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ByOwner_RestoresCapacityAndCoverage(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 7, CancellationReason: "plans changed"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelledByUser, f.bookings.bookings[1].Status)
	assert.Equal(t, 0, f.slots.booked[100], "slot capacity must be restored")
	assert.Equal(t, 2, f.subs.refunds[5], "covered units must be refunded")
}

func TestCancel_ByManager(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByTenant, f.bookings.bookings[1].Status)
}

func TestCancel_ByStranger(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 999})
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusConfirmed, f.bookings.bookings[1].Status)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)
	f.bookings.bookings[1].Status = domain.StatusCancelledByUser

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 7})
	require.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ConcurrentCancelSkipsCompensations(t *testing.T) {
	f := newFixture(t)
	// Параллельная отмена успевает между чтением брони и UPDATE
	f.bookings.onCancel = func() {
		f.bookings.bookings[1].Status = domain.StatusCancelledByUser
		f.bookings.onCancel = nil
	}

	err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 7})
	require.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, 3, f.slots.booked[100], "capacity must not be restored twice")
	assert.Empty(t, f.subs.refunds, "coverage must not be refunded twice")
}

func TestGetUserBookings_FilterByStatus(t *testing.T) {
	f := newFixture(t)
	f.bookings.bookings[2] = &domain.Booking{ID: 2, UserID: 7, TenantID: 1, Status: domain.StatusCompleted}

	status := string(domain.StatusCompleted)
	resp, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	bad := "paused"
	_, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7, Status: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetTenantBookings_ManagerOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetTenantBookings(context.Background(), &models.GetTenantBookingsRequest{UserID: 7, TenantID: 1})
	require.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.GetTenantBookings(context.Background(), &models.GetTenantBookingsRequest{UserID: 42, TenantID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}
