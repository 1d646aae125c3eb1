package acquire_lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
)

// Моки репозиториев

type slotRepoMock struct {
	slots map[int64]*domain.Slot
}

func (m *slotRepoMock) GetByIDForUpdate(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

type lockRepoMock struct {
	locks   []*domain.BookingLock
	created int
}

func (m *lockRepoMock) Create(_ context.Context, l *domain.BookingLock) (*domain.BookingLock, error) {
	m.created++
	m.locks = append(m.locks, l)
	return l, nil
}

func (m *lockRepoMock) SumActiveBySlot(_ context.Context, slotID int64, now time.Time) (int, error) {
	sum := 0
	for _, l := range m.locks {
		if l.SlotID == slotID && l.IsActive(now) {
			sum += l.ReservedCapacity
		}
	}
	return sum, nil
}

func (m *lockRepoMock) DeleteExpiredBySlot(_ context.Context, slotID int64, now time.Time) (int64, error) {
	kept := m.locks[:0]
	var deleted int64
	for _, l := range m.locks {
		if l.SlotID == slotID && l.IsExpired(now) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	m.locks = kept
	return deleted, nil
}

type txManagerMock struct{}

func (m *txManagerMock) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func newTestUseCase(slots *slotRepoMock, locks *lockRepoMock, now time.Time) *UseCase {
	uc := NewUseCase(slots, locks, &txManagerMock{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func testSlot(id int64, capacity, booked int) *domain.Slot {
	return &domain.Slot{
		ID:               id,
		TenantID:         1,
		ServiceID:        10,
		EmployeeID:       100,
		StartTime:        "10:00",
		EndTime:          "11:00",
		OriginalCapacity: capacity,
		BookedCount:      booked,
	}
}

func TestExecute_Success(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	slots := &slotRepoMock{slots: map[int64]*domain.Slot{1: testSlot(1, 5, 0)}}
	locks := &lockRepoMock{}
	uc := newTestUseCase(slots, locks, now)

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.LockID)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, int64(1), resp.SlotID)
	assert.Equal(t, 3, resp.ReservedCapacity)
	assert.Equal(t, now.Add(domain.LockDuration), resp.ExpiresAt)
	assert.Equal(t, 120, resp.ExpiresInSeconds)
	assert.Equal(t, 1, locks.created)
}

func TestExecute_CapacityUnavailable_NeverCreatesLock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	slots := &slotRepoMock{slots: map[int64]*domain.Slot{1: testSlot(1, 5, 3)}}
	locks := &lockRepoMock{}
	uc := newTestUseCase(slots, locks, now)

	// Свободно 2 места, запрашиваем 3
	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 3})
	require.ErrorIs(t, err, ErrCapacityUnavailable)
	assert.Equal(t, 0, locks.created, "failed acquire must not create a lock")
}

func TestExecute_FullSlotLockedByConcurrentHold(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	slots := &slotRepoMock{slots: map[int64]*domain.Slot{1: testSlot(1, 5, 0)}}
	locks := &lockRepoMock{}
	uc := newTestUseCase(slots, locks, now)

	// Первый клиент забирает все 5 мест
	first, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 5})
	require.NoError(t, err)

	// Второй клиент не может взять даже одно место, пока жива первая блокировка
	_, err = uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 1})
	require.ErrorIs(t, err, ErrCapacityUnavailable)

	// После истечения первой блокировки место освобождается
	expired := now.Add(domain.LockDuration + time.Second)
	uc.timeProvider = &fixedTimeProvider{now: expired}

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first.LockID, resp.LockID)
}

func TestExecute_PrunesExpiredLocksIncludingReleased(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	released := past.Add(time.Minute)
	slots := &slotRepoMock{slots: map[int64]*domain.Slot{1: testSlot(1, 5, 0)}}
	locks := &lockRepoMock{locks: []*domain.BookingLock{
		{ID: "stale-1", SlotID: 1, ReservedCapacity: 2, ExpiresAt: past},
		{ID: "stale-2", SlotID: 1, ReservedCapacity: 1, ExpiresAt: past, ReleasedAt: &released},
	}}
	uc := newTestUseCase(slots, locks, now)

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 5})
	require.NoError(t, err)

	// Остаётся только свежая блокировка - освобождённые и истёкшие удалены
	require.Len(t, locks.locks, 1)
	assert.Equal(t, resp.LockID, locks.locks[0].ID)
}

func TestExecute_EachCallCreatesNewLock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	slots := &slotRepoMock{slots: map[int64]*domain.Slot{1: testSlot(1, 10, 0)}}
	locks := &lockRepoMock{}
	uc := newTestUseCase(slots, locks, now)

	first, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 2})
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 2})
	require.NoError(t, err)

	// Идемпотентность не гарантируется - два вызова дают две блокировки
	assert.NotEqual(t, first.LockID, second.LockID)
	assert.Equal(t, 2, locks.created)
}

func TestExecute_ReusesProvidedSessionID(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	slots := &slotRepoMock{slots: map[int64]*domain.Slot{1: testSlot(1, 5, 0)}}
	uc := newTestUseCase(slots, &lockRepoMock{}, now)

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, ReservedCapacity: 1, SessionID: "session-abc"})
	require.NoError(t, err)
	assert.Equal(t, "session-abc", resp.SessionID)
}

func TestExecute_SlotNotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&slotRepoMock{slots: map[int64]*domain.Slot{}}, &lockRepoMock{}, now)

	_, err := uc.Execute(context.Background(), &Request{SlotID: 42, ReservedCapacity: 1})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&slotRepoMock{slots: map[int64]*domain.Slot{}}, &lockRepoMock{}, now)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero slot id", req: &Request{SlotID: 0, ReservedCapacity: 1}},
		{name: "zero capacity", req: &Request{SlotID: 1, ReservedCapacity: 0}},
		{name: "negative capacity", req: &Request{SlotID: 1, ReservedCapacity: -2}},
		{name: "capacity above limit", req: &Request{SlotID: 1, ReservedCapacity: domain.MaxReservedCapacity + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
