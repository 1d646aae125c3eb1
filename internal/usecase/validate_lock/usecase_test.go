package validate_lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	lockRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/lock"
)

type lockRepoMock struct {
	locks map[string]*domain.BookingLock
}

func (m *lockRepoMock) GetByIDAndSession(_ context.Context, lockID, sessionID string) (*domain.BookingLock, error) {
	l, ok := m.locks[lockID]
	if !ok || l.SessionID != sessionID {
		return nil, lockRepo.ErrLockNotFound
	}
	copied := *l
	return &copied, nil
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

func newTestUseCase(locks map[string]*domain.BookingLock, now time.Time) *UseCase {
	uc := NewUseCase(&lockRepoMock{locks: locks}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_ActiveLock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	locks := map[string]*domain.BookingLock{
		"lock-1": {
			ID:        "lock-1",
			SessionID: "session-1",
			SlotID:    1,
			ExpiresAt: now.Add(90 * time.Second),
		},
	}

	resp, err := newTestUseCase(locks, now).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
	require.NoError(t, err)

	assert.True(t, resp.Valid)
	assert.Equal(t, 90, resp.SecondsRemaining)
}

func TestExecute_ExpiredLock_AlwaysInvalid(t *testing.T) {
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	locks := map[string]*domain.BookingLock{
		"lock-1": {
			ID:        "lock-1",
			SessionID: "session-1",
			SlotID:    1,
			ExpiresAt: created.Add(domain.LockDuration),
		},
	}

	// Проверки до истечения срока не продлевают блокировку:
	// опрашиваем каждые 5 секунд, после 120-й секунды valid=false навсегда
	for elapsed := 0 * time.Second; elapsed <= domain.LockDuration; elapsed += domain.LockValidateInterval {
		resp, err := newTestUseCase(locks, created.Add(elapsed)).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
		require.NoError(t, err)
		assert.True(t, resp.Valid, "lock should be valid at %s", elapsed)
	}

	for _, after := range []time.Duration{time.Millisecond, time.Second, time.Hour} {
		resp, err := newTestUseCase(locks, created.Add(domain.LockDuration).Add(after)).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
		require.NoError(t, err)
		assert.False(t, resp.Valid, "lock must be invalid %s after expiry", after)
		assert.Equal(t, 0, resp.SecondsRemaining)
	}
}

func TestExecute_ReleasedLock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	released := now.Add(-10 * time.Second)
	locks := map[string]*domain.BookingLock{
		"lock-1": {
			ID:         "lock-1",
			SessionID:  "session-1",
			SlotID:     1,
			ExpiresAt:  now.Add(60 * time.Second),
			ReleasedAt: &released,
		},
	}

	resp, err := newTestUseCase(locks, now).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
	require.NoError(t, err)

	assert.False(t, resp.Valid)
	assert.Equal(t, 0, resp.SecondsRemaining)
}

func TestExecute_NotFound(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(map[string]*domain.BookingLock{}, now)

	_, err := uc.Execute(context.Background(), &Request{LockID: "missing", SessionID: "session-1"})
	require.ErrorIs(t, err, ErrLockNotFound)
}

func TestExecute_WrongSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	locks := map[string]*domain.BookingLock{
		"lock-1": {ID: "lock-1", SessionID: "session-1", SlotID: 1, ExpiresAt: now.Add(time.Minute)},
	}

	_, err := newTestUseCase(locks, now).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "other-session"})
	require.ErrorIs(t, err, ErrLockNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(map[string]*domain.BookingLock{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{LockID: "", SessionID: "s"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{LockID: "l", SessionID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
