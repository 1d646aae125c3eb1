package acquire_lock

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("acquire_lock: slot not found")

	// ErrCapacityUnavailable возвращается, когда запрошенная вместимость
	// превышает свободный остаток слота (с учётом активных блокировок)
	// Терминальная ошибка: повторять запрос без изменения условий бессмысленно
	ErrCapacityUnavailable = errors.New("acquire_lock: capacity unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("acquire_lock: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("acquire_lock: internal error")
)
