package reservationclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *[]time.Duration) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var sleeps []time.Duration
	c := New(srv.URL, 2*time.Second)
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestAcquireLock_Success(t *testing.T) {
	c, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/bookings/lock", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"lockId":"lock-1","sessionId":"session-1","slotId":1,"reservedCapacity":2,"expiresInSeconds":120}`))
	}))

	lock, err := c.AcquireLock(context.Background(), &AcquireLockRequest{SlotID: 1, ReservedCapacity: 2})
	require.NoError(t, err)

	assert.Equal(t, "lock-1", lock.LockID)
	assert.Equal(t, 120, lock.ExpiresInSeconds)
	assert.Empty(t, *sleeps, "no retries on success")
}

func TestAcquireLock_RetriesOn5xx(t *testing.T) {
	attempts := 0
	c, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"lockId":"lock-1","sessionId":"session-1"}`))
	}))

	lock, err := c.AcquireLock(context.Background(), &AcquireLockRequest{SlotID: 1, ReservedCapacity: 1})
	require.NoError(t, err)

	assert.Equal(t, "lock-1", lock.LockID)
	assert.Equal(t, 3, attempts)
	// Паузы 1s и 2s перед второй и третьей попытками
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)
}

func TestAcquireLock_GivesUpAfterThreeRetries(t *testing.T) {
	attempts := 0
	c, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.AcquireLock(context.Background(), &AcquireLockRequest{SlotID: 1, ReservedCapacity: 1})
	require.ErrorIs(t, err, ErrUnavailable)

	// Исходная попытка + три повтора, все паузы задействованы
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, *sleeps)
}

func TestAcquireLock_ConflictNeverRetried(t *testing.T) {
	attempts := 0
	c, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusConflict)
	}))

	_, err := c.AcquireLock(context.Background(), &AcquireLockRequest{SlotID: 1, ReservedCapacity: 1})
	require.ErrorIs(t, err, ErrCapacityUnavailable)

	// 409 - окончательный ответ: одна попытка, без пауз
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestAcquireLock_BadRequestNotRetried(t *testing.T) {
	attempts := 0
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.AcquireLock(context.Background(), &AcquireLockRequest{SlotID: 0, ReservedCapacity: 0})
	require.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, 1, attempts)
}

func TestValidateLock(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bookings/lock/lock-1/validate", r.URL.Path)
		assert.Equal(t, "session-1", r.URL.Query().Get("sessionId"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"lockId":"lock-1","valid":true,"secondsRemaining":42}`))
	}))

	status, err := c.ValidateLock(context.Background(), "lock-1", "session-1")
	require.NoError(t, err)

	assert.True(t, status.Valid)
	assert.Equal(t, 42, status.SecondsRemaining)
}

func TestValidateLock_Expired(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"lockId":"lock-1","valid":false,"secondsRemaining":0}`))
	}))

	// 409 - не ошибка запроса: держатель узнаёт, что резерв потерян
	status, err := c.ValidateLock(context.Background(), "lock-1", "session-1")
	require.NoError(t, err)

	assert.False(t, status.Valid)
	assert.Equal(t, 0, status.SecondsRemaining)
}

func TestValidateLock_NotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.ValidateLock(context.Background(), "missing", "session-1")
	require.ErrorIs(t, err, ErrLockNotFound)
}

func TestReleaseLock_SwallowsErrors(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	// Не должно паниковать и не возвращает ошибку
	c.ReleaseLock(context.Background(), "lock-1", "session-1")
}

func TestKeepAlive_StopsWhenLockExpires(t *testing.T) {
	valid := true
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if valid {
			valid = false
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"valid":true,"secondsRemaining":5}`))
			return
		}
		// Истёкшая блокировка отдаётся сервером как 409 с valid=false в теле
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"valid":false,"secondsRemaining":0}`))
	}))
	c.keepAliveInterval = 5 * time.Millisecond

	err := c.KeepAlive(context.Background(), "lock-1", "session-1")
	require.ErrorIs(t, err, ErrLockExpired)
}

func TestKeepAlive_StopsOnContextCancel(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"valid":true,"secondsRemaining":100}`))
	}))
	c.keepAliveInterval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := c.KeepAlive(ctx, "lock-1", "session-1")
	assert.NoError(t, err)
}
