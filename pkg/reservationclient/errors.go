package reservationclient

import "errors"

var (
	// ErrCapacityUnavailable места заняты - окончательный ответ, не повторяется
	ErrCapacityUnavailable = errors.New("capacity unavailable")
	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("slot not found")
	// ErrLockNotFound блокировка не найдена
	ErrLockNotFound = errors.New("lock not found")
	// ErrLockExpired блокировка перестала действовать
	ErrLockExpired = errors.New("lock expired")
	// ErrBadRequest сервис отклонил параметры запроса
	ErrBadRequest = errors.New("bad request")
	// ErrUnavailable сервис недоступен, попытки исчерпаны
	ErrUnavailable = errors.New("service unavailable")
	// ErrInvalidResponse некорректный ответ сервиса
	ErrInvalidResponse = errors.New("invalid response")
	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("internal error")
)
