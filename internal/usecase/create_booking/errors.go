package create_booking

import "errors"

var (
	// ErrLockNotFound блокировка с такой парой lock_id + session_id не существует
	ErrLockNotFound = errors.New("lock not found")
	// ErrLockExpired блокировка истекла или уже снята - бронирование невозможно
	ErrLockExpired = errors.New("lock expired")
	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("slot not found")
	// ErrSlotMismatch слот блокировки не соответствует запрошенной услуге
	ErrSlotMismatch = errors.New("slot does not match requested service")
	// ErrServiceNotFound услуга не найдена в CatalogService
	ErrServiceNotFound = errors.New("service not found")
	// ErrServiceInactive услуга отключена и недоступна для бронирования
	ErrServiceInactive = errors.New("service is inactive")
	// ErrSubscriptionNotFound абонемент не найден
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrSubscriptionNotUsable абонемент неактивен или истёк
	ErrSubscriptionNotUsable = errors.New("subscription is not usable")
	// ErrInsufficientBalance на абонементе недостаточно единиц для списания
	ErrInsufficientBalance = errors.New("insufficient subscription balance")
	// ErrCapacityExceeded вместимость слота исчерпана
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")
)
