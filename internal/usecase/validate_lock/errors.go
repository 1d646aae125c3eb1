package validate_lock

import "errors"

var (
	// ErrLockNotFound блокировка с такой парой lock_id + session_id не существует
	ErrLockNotFound = errors.New("lock not found")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
