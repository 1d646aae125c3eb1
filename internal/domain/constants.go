package domain

import "time"

// Lock lifecycle constants
const (
	// LockDuration время жизни блокировки с момента создания
	// Не продлевается валидацией: клиент, не успевший оформить бронирование
	// за это время, теряет резерв и начинает выбор слота заново
	LockDuration = 120 * time.Second

	// LockValidateInterval рекомендуемый интервал keepalive-проверок блокировки
	LockValidateInterval = 5 * time.Second
)

// Business validation constants
const (
	MinReservedCapacity        = 1
	MaxReservedCapacity        = 50
	MinVisitorCount            = 1
	MaxVisitorCount            = 50
	MaxNotesLength             = 500
	MaxCancellationReasonLength = 500
	MaxBulkBookingItems        = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов бронирований, не занимающих вместимость слота
// Используется при подсчёте занятых мест
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByTenant,
	StatusNoShow,
}

// ActiveStatuses список статусов бронирований, занимающих вместимость слота
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
}
