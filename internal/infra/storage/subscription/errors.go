package subscription

import "errors"

var (
	// ErrSubscriptionNotFound возвращается, когда подписка не найдена
	ErrSubscriptionNotFound = errors.New("subscription.repository: subscription not found")

	// ErrUsageNotFound возвращается, когда у подписки нет строки использования для услуги
	ErrUsageNotFound = errors.New("subscription.repository: usage not found for service")

	// ErrInsufficientBalance возвращается, когда списание превысило бы остаток подписки
	ErrInsufficientBalance = errors.New("subscription.repository: insufficient remaining quantity")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("subscription.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("subscription.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("subscription.repository: failed to scan row")
)
