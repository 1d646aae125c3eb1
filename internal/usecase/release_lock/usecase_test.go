package release_lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type lockRepoMock struct {
	locks map[string]*domain.BookingLock
}

func (m *lockRepoMock) Release(_ context.Context, lockID, sessionID string, now time.Time) (int64, error) {
	l, ok := m.locks[lockID]
	if !ok || l.SessionID != sessionID || !l.IsActive(now) {
		return 0, nil
	}
	released := now
	l.ReleasedAt = &released
	return 1, nil
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

func newTestUseCase(repo *lockRepoMock, now time.Time) *UseCase {
	uc := NewUseCase(repo, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_ReleasesActiveLock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &lockRepoMock{locks: map[string]*domain.BookingLock{
		"lock-1": {ID: "lock-1", SessionID: "session-1", SlotID: 1, ExpiresAt: now.Add(time.Minute)},
	}}

	resp, err := newTestUseCase(repo, now).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
	require.NoError(t, err)

	assert.True(t, resp.Released)
	assert.False(t, repo.locks["lock-1"].IsActive(now))
}

func TestExecute_Idempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &lockRepoMock{locks: map[string]*domain.BookingLock{
		"lock-1": {ID: "lock-1", SessionID: "session-1", SlotID: 1, ExpiresAt: now.Add(time.Minute)},
	}}
	uc := newTestUseCase(repo, now)

	first, err := uc.Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
	require.NoError(t, err)
	assert.True(t, first.Released)

	// Повторное снятие - не ошибка
	second, err := uc.Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
	require.NoError(t, err)
	assert.False(t, second.Released)
}

func TestExecute_UnknownLock_NoError(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &lockRepoMock{locks: map[string]*domain.BookingLock{}}

	resp, err := newTestUseCase(repo, now).Execute(context.Background(), &Request{LockID: "missing", SessionID: "session-1"})
	require.NoError(t, err)
	assert.False(t, resp.Released)
}

func TestExecute_ExpiredLock_NoError(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &lockRepoMock{locks: map[string]*domain.BookingLock{
		"lock-1": {ID: "lock-1", SessionID: "session-1", SlotID: 1, ExpiresAt: now.Add(-time.Second)},
	}}

	resp, err := newTestUseCase(repo, now).Execute(context.Background(), &Request{LockID: "lock-1", SessionID: "session-1"})
	require.NoError(t, err)
	assert.False(t, resp.Released)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&lockRepoMock{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{LockID: "", SessionID: "s"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{LockID: "l", SessionID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
