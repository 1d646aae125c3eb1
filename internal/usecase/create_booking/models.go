package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request запрос на фиксацию бронирования под действующей блокировкой
type Request struct {
	UserID    int64
	TenantID  int64
	ServiceID int64

	LockID    string
	SessionID string

	VisitorCount int

	// Не более одного абонемента на бронирование
	PackageSubscriptionID *int64

	Notes *string
}

// Response результат фиксации бронирования
type Response struct {
	BookingID int64

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
