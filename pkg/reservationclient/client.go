package reservationclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// maxAttempts число попыток захвата блокировки (1 исходная + 3 повтора)
	maxAttempts = 4

	// keepAliveInterval интервал опроса блокировки во время оформления
	keepAliveInterval = 5 * time.Second
)

// backoffDelays паузы перед повторными попытками: 1s, 2s, 3s
var backoffDelays = []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}

// Client HTTP клиент ReservationService для использования из других сервисов
// платформы. Повторяет запросы захвата блокировки только на 5xx и сетевых
// ошибках: 409 (занято) - окончательный ответ, повторять его бессмысленно
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Подменяются в тестах
	sleep             func(time.Duration)
	keepAliveInterval time.Duration
}

// New создает новый клиент ReservationService
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:           baseURL,
		httpClient:        &http.Client{Timeout: timeout},
		sleep:             time.Sleep,
		keepAliveInterval: keepAliveInterval,
	}
}

// AcquireLockRequest запрос захвата блокировки
type AcquireLockRequest struct {
	SlotID           int64  `json:"slotId"`
	ReservedCapacity int    `json:"reservedCapacity"`
	SessionID        string `json:"sessionId,omitempty"`
}

// Lock захваченная блокировка
type Lock struct {
	LockID           string `json:"lockId"`
	SessionID        string `json:"sessionId"`
	SlotID           int64  `json:"slotId"`
	ReservedCapacity int    `json:"reservedCapacity"`
	ExpiresAt        string `json:"expiresAt"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// LockStatus результат keepalive-проверки
type LockStatus struct {
	LockID           string `json:"lockId"`
	Valid            bool   `json:"valid"`
	SecondsRemaining int    `json:"secondsRemaining"`
}

// AcquireLock захватывает блокировку вместимости слота.
// На 5xx и сетевых ошибках выполняется до трёх повторов с паузами 1s/2s/3s.
// 409 возвращается сразу как ErrCapacityUnavailable - места заняты, и повтор
// не изменит ответ
func (c *Client) AcquireLock(ctx context.Context, req *AcquireLockRequest) (*Lock, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(backoffDelays[attempt-1])
		}

		lock, retryable, err := c.tryAcquire(ctx, req)
		if err == nil {
			return lock, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: AcquireLock - %d attempts failed: %v", ErrUnavailable, maxAttempts, lastErr)
}

// tryAcquire одна попытка захвата; второй результат - можно ли повторять
func (c *Client) tryAcquire(ctx context.Context, req *AcquireLockRequest) (*Lock, bool, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: tryAcquire - failed to marshal request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/bookings/lock", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("%w: tryAcquire - failed to build request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Сетевые ошибки повторяемы
		return nil, true, fmt.Errorf("%w: tryAcquire - request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		var lock Lock
		if err := json.NewDecoder(resp.Body).Decode(&lock); err != nil {
			return nil, false, fmt.Errorf("%w: tryAcquire - failed to decode response: %v", ErrInvalidResponse, err)
		}
		return &lock, false, nil

	case resp.StatusCode == http.StatusConflict:
		return nil, false, ErrCapacityUnavailable

	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrSlotNotFound

	case resp.StatusCode == http.StatusBadRequest:
		return nil, false, ErrBadRequest

	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: tryAcquire - server returned %d", ErrUnavailable, resp.StatusCode)

	default:
		return nil, false, fmt.Errorf("%w: tryAcquire - unexpected status %d", ErrInvalidResponse, resp.StatusCode)
	}
}

// ValidateLock выполняет keepalive-проверку блокировки.
// Проверка не продлевает срок действия
func (c *Client) ValidateLock(ctx context.Context, lockID, sessionID string) (*LockStatus, error) {
	url := fmt.Sprintf("%s/api/v1/bookings/lock/%s/validate?sessionId=%s", c.baseURL, lockID, sessionID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ValidateLock - failed to build request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: ValidateLock - request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	// 409 - блокировка истекла или освобождена: тело содержит valid=false,
	// для держателя это "резерв потерян", а не ошибка запроса
	case http.StatusOK, http.StatusConflict:
		var status LockStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return nil, fmt.Errorf("%w: ValidateLock - failed to decode response: %v", ErrInvalidResponse, err)
		}
		return &status, nil

	case http.StatusNotFound:
		return nil, ErrLockNotFound

	default:
		return nil, fmt.Errorf("%w: ValidateLock - unexpected status %d", ErrInvalidResponse, resp.StatusCode)
	}
}

// ReleaseLock снимает блокировку досрочно. Ошибки проглатываются: снятие
// best-effort, неснятая блокировка истечёт сама через 120 секунд
func (c *Client) ReleaseLock(ctx context.Context, lockID, sessionID string) {
	body, err := json.Marshal(map[string]string{"sessionId": sessionID})
	if err != nil {
		return
	}

	url := fmt.Sprintf("%s/api/v1/bookings/lock/%s/release", c.baseURL, lockID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return
	}
	resp.Body.Close()
}

// KeepAlive опрашивает блокировку каждые 5 секунд, пока контекст не отменён
// или блокировка не станет невалидной. Возвращает nil при отмене контекста
// (оформление завершилось) и ErrLockExpired, когда блокировка перестала
// действовать
func (c *Client) KeepAlive(ctx context.Context, lockID, sessionID string) error {
	ticker := time.NewTicker(c.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			status, err := c.ValidateLock(ctx, lockID, sessionID)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Потеря одной проверки не фатальна, следующая через 5 секунд
				continue
			}
			if !status.Valid {
				return ErrLockExpired
			}
		}
	}
}
