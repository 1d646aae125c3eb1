package create_bulk_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	lockRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/lock"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	subscriptionRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/subscription"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// Моки с поддержкой отката: txManagerMock снимает снапшот состояния и
// восстанавливает его при ошибке, имитируя атомарность транзакции

type state struct {
	slots    map[int64]*domain.Slot
	locks    map[string]*domain.BookingLock
	usages   map[int64]*domain.PackageSubscriptionUsage
	bookings []*domain.Booking
}

func (s *state) snapshot() *state {
	c := &state{
		slots:  make(map[int64]*domain.Slot, len(s.slots)),
		locks:  make(map[string]*domain.BookingLock, len(s.locks)),
		usages: make(map[int64]*domain.PackageSubscriptionUsage, len(s.usages)),
	}
	for k, v := range s.slots {
		copied := *v
		c.slots[k] = &copied
	}
	for k, v := range s.locks {
		copied := *v
		c.locks[k] = &copied
	}
	for k, v := range s.usages {
		copied := *v
		c.usages[k] = &copied
	}
	c.bookings = append(c.bookings, s.bookings...)
	return c
}

func (s *state) restore(from *state) {
	s.slots = from.slots
	s.locks = from.locks
	s.usages = from.usages
	s.bookings = from.bookings
}

type storeMock struct {
	st   *state
	subs map[int64]*domain.PackageSubscription
}

func (m *storeMock) GetByIDForUpdate(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := m.st.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *storeMock) IncrementBooked(_ context.Context, id int64, delta int) error {
	s, ok := m.st.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	if s.BookedCount+delta > s.OriginalCapacity {
		return slotRepo.ErrCapacityExceeded
	}
	s.BookedCount += delta
	return nil
}

func (m *storeMock) GetByIDAndSessionForUpdate(_ context.Context, lockID, sessionID string) (*domain.BookingLock, error) {
	l, ok := m.st.locks[lockID]
	if !ok || l.SessionID != sessionID {
		return nil, lockRepo.ErrLockNotFound
	}
	copied := *l
	return &copied, nil
}

func (m *storeMock) Release(_ context.Context, lockID, sessionID string, now time.Time) (int64, error) {
	l, ok := m.st.locks[lockID]
	if !ok || l.SessionID != sessionID || !l.IsActive(now) {
		return 0, nil
	}
	released := now
	l.ReleasedAt = &released
	return 1, nil
}

func (m *storeMock) GetByID(_ context.Context, id int64) (*domain.PackageSubscription, error) {
	s, ok := m.subs[id]
	if !ok {
		return nil, subscriptionRepo.ErrSubscriptionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *storeMock) GetUsageForUpdate(_ context.Context, subscriptionID, serviceID int64) (*domain.PackageSubscriptionUsage, error) {
	u, ok := m.st.usages[subscriptionID]
	if !ok || u.ServiceID != serviceID {
		return nil, subscriptionRepo.ErrUsageNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *storeMock) ApplyCoverage(_ context.Context, subscriptionID, serviceID int64, covered int) error {
	u, ok := m.st.usages[subscriptionID]
	if !ok || u.ServiceID != serviceID || u.RemainingQuantity < covered {
		return subscriptionRepo.ErrInsufficientBalance
	}
	u.UsedQuantity += covered
	u.RemainingQuantity -= covered
	return nil
}

func (m *storeMock) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	created := *b
	created.ID = int64(len(m.st.bookings) + 1)
	m.st.bookings = append(m.st.bookings, &created)
	return &created, nil
}

type catalogClientMock struct {
	services map[int64]*catalogservice.Service
}

func (m *catalogClientMock) GetService(_ context.Context, _, serviceID int64) (*catalogservice.Service, error) {
	s, ok := m.services[serviceID]
	if !ok {
		return nil, catalogservice.ErrServiceNotFound
	}
	return s, nil
}

type txManagerMock struct {
	st *state
}

func (m *txManagerMock) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.st.snapshot()
	if err := fn(ctx); err != nil {
		m.st.restore(snap)
		return err
	}
	return nil
}

// retryingTxManagerMock откатывает первую попытку и перезапускает замыкание,
// как txmanager при конфликте сериализации
type retryingTxManagerMock struct {
	st       *state
	attempts int
}

func (m *retryingTxManagerMock) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.st.snapshot()

	m.attempts++
	if err := fn(ctx); err != nil {
		m.st.restore(snap)
		return err
	}
	if m.attempts == 1 {
		m.st.restore(snap)
		m.attempts++
		if err := fn(ctx); err != nil {
			m.st.restore(snap)
			return err
		}
	}
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	store   *storeMock
	catalog *catalogClientMock
	now     time.Time
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	st := &state{
		slots: map[int64]*domain.Slot{
			1: {ID: 1, TenantID: 1, ServiceID: 10, EmployeeID: 100, SlotDate: date, StartTime: "10:00", EndTime: "11:00", OriginalCapacity: 5},
			2: {ID: 2, TenantID: 1, ServiceID: 20, EmployeeID: 101, SlotDate: date, StartTime: "11:00", EndTime: "12:00", OriginalCapacity: 3},
		},
		locks: map[string]*domain.BookingLock{
			"lock-1": {ID: "lock-1", SessionID: "session-1", SlotID: 1, ReservedCapacity: 2, ExpiresAt: now.Add(time.Minute)},
			"lock-2": {ID: "lock-2", SessionID: "session-1", SlotID: 2, ReservedCapacity: 1, ExpiresAt: now.Add(time.Minute)},
		},
		usages: map[int64]*domain.PackageSubscriptionUsage{},
	}

	store := &storeMock{st: st, subs: map[int64]*domain.PackageSubscription{}}
	catalog := &catalogClientMock{services: map[int64]*catalogservice.Service{
		10: {ID: 10, TenantID: 1, Name: "Wash", UnitPrice: 1000, IsActive: true},
		20: {ID: 20, TenantID: 1, Name: "Trim", UnitPrice: 2000, IsActive: true},
	}}

	f := &fixture{store: store, catalog: catalog, now: now}
	f.uc = NewUseCase(store, store, store, store, catalog, &txManagerMock{st: st}, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: now}
	return f
}

func baseRequest() *Request {
	return &Request{
		UserID:   7,
		TenantID: 1,
		Items: []Item{
			{ServiceID: 10, LockID: "lock-1", SessionID: "session-1", VisitorCount: 2},
			{ServiceID: 20, LockID: "lock-2", SessionID: "session-1", VisitorCount: 1},
		},
	}
}

func TestExecute_TwoServicesOneGroup(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BookingGroupID)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, 2000.0+2000.0, resp.TotalPrice)

	// Оба бронирования разделяют один group_id
	for _, b := range f.store.st.bookings {
		require.NotNil(t, b.BookingGroupID)
		assert.Equal(t, resp.BookingGroupID, *b.BookingGroupID)
	}

	assert.Equal(t, 2, f.store.st.slots[1].BookedCount)
	assert.Equal(t, 1, f.store.st.slots[2].BookedCount)
}

func TestExecute_SerializationRetryDoesNotDuplicateResults(t *testing.T) {
	f := newFixture(t)
	f.uc.txManager = &retryingTxManagerMock{st: f.store.st}

	resp, err := f.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	// Накопленное откатившейся попыткой не должно попасть в ответ
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, 4000.0, resp.TotalPrice)
	assert.Len(t, f.store.st.bookings, 2)
}

func TestExecute_AtomicRollbackOnExpiredLock(t *testing.T) {
	f := newFixture(t)
	// Вторая блокировка истекла - вся группа откатывается
	f.store.st.locks["lock-2"].ExpiresAt = f.now.Add(-time.Second)

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.ErrorIs(t, err, ErrLockExpired)

	assert.Equal(t, 0, f.store.st.slots[1].BookedCount, "first item must be rolled back")
	assert.Empty(t, f.store.st.bookings)
	assert.True(t, f.store.st.locks["lock-1"].IsActive(f.now), "first lock must survive the rollback")
}

func TestExecute_SharedSubscriptionAcrossItems(t *testing.T) {
	f := newFixture(t)
	f.store.subs[5] = &domain.PackageSubscription{ID: 5, CustomerID: 7, TenantID: 1, Status: domain.SubscriptionActive}
	f.store.st.usages[5] = &domain.PackageSubscriptionUsage{SubscriptionID: 5, ServiceID: 10, OriginalQuantity: 1, RemainingQuantity: 1}

	// Оба элемента - услуга 10, абонемент с остатком 1: первый покрыт,
	// второй платный
	f.store.st.locks["lock-2"].SlotID = 1
	req := &Request{
		UserID:   7,
		TenantID: 1,
		Items: []Item{
			{ServiceID: 10, LockID: "lock-1", SessionID: "session-1", VisitorCount: 1, PackageSubscriptionID: ptr.Ptr(int64(5))},
			{ServiceID: 10, LockID: "lock-2", SessionID: "session-1", VisitorCount: 1, PackageSubscriptionID: ptr.Ptr(int64(5))},
		},
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Bookings[0].PackageCoveredQuantity)
	assert.Equal(t, 0, resp.Bookings[1].PackageCoveredQuantity)
	assert.Equal(t, 1, resp.Bookings[1].PaidQuantity)
	assert.Equal(t, 0, f.store.st.usages[5].RemainingQuantity)
}

func TestExecute_DuplicateLockRejected(t *testing.T) {
	f := newFixture(t)

	req := baseRequest()
	req.Items[1].LockID = "lock-1"

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_TooManyItems(t *testing.T) {
	f := newFixture(t)

	req := &Request{UserID: 7, TenantID: 1}
	for i := 0; i <= domain.MaxBulkBookingItems; i++ {
		req.Items = append(req.Items, Item{ServiceID: 10, LockID: "lock", SessionID: "s", VisitorCount: 1})
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InactiveServiceRejectsWholeGroup(t *testing.T) {
	f := newFixture(t)
	f.catalog.services[20].IsActive = false

	_, err := f.uc.Execute(context.Background(), baseRequest())
	require.ErrorIs(t, err, ErrServiceInactive)
	assert.Empty(t, f.store.st.bookings)
}
