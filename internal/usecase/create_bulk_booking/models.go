package create_bulk_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Item один элемент группового бронирования: своя блокировка, своя услуга,
// свой (необязательный) абонемент
type Item struct {
	ServiceID int64

	LockID    string
	SessionID string

	VisitorCount int

	PackageSubscriptionID *int64

	Notes *string
}

// Request запрос на групповое бронирование. Все элементы фиксируются в одной
// транзакции: либо всё, либо ничего
type Request struct {
	UserID   int64
	TenantID int64

	Items []Item
}

// BookingResult результат фиксации одного элемента группы
type BookingResult struct {
	BookingID int64

	ServiceID   int64
	SlotID      int64
	BookingDate time.Time
	StartTime   string
	EndTime     string

	VisitorCount           int
	PackageCoveredQuantity int
	PaidQuantity           int
	UnitPrice              float64
	TotalPrice             float64

	Status domain.BookingStatus
}

// Response результат группового бронирования
type Response struct {
	BookingGroupID string
	Bookings       []BookingResult
	TotalPrice     float64
}
