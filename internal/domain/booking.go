package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed          BookingStatus = "confirmed"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByTenant  BookingStatus = "cancelled_by_tenant"
	StatusNoShow             BookingStatus = "no_show"
)

// Booking represents a committed reservation of slot capacity.
// VisitorCount is always PackageCoveredQuantity + PaidQuantity, and
// TotalPrice is PaidQuantity * the service unit price at commit time.
type Booking struct {
	ID        int64
	UserID    int64
	TenantID  int64
	ServiceID int64
	SlotID    int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	VisitorCount           int
	PackageCoveredQuantity int
	PaidQuantity           int
	UnitPrice              float64
	TotalPrice             float64

	// At most one subscription supplies coverage for a booking.
	PackageSubscriptionID *int64

	// Bookings created through the bulk endpoint share a group ID.
	BookingGroupID *string

	Status BookingStatus

	// Denormalized data for history
	ServiceName string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies slot capacity
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledByTenant &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledByTenant
}

// HasCoverage returns true if part of the booking was covered by a package subscription
func (b *Booking) HasCoverage() bool {
	return b.PackageSubscriptionID != nil && b.PackageCoveredQuantity > 0
}

// TenantBookingsFilter фильтр для получения бронирований тенанта
type TenantBookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	ServiceID       *int64         // Фильтр по услуге (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show бронирования
}
