package create_bulk_booking

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createBulkBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_bulk_booking"
)

// BulkBookingItem элемент группового бронирования в HTTP запросе
type BulkBookingItem struct {
	ServiceID int64 `json:"serviceId"`

	LockID    string `json:"lockId"`
	SessionID string `json:"sessionId"`

	VisitorCount int `json:"visitorCount"`

	PackageSubscriptionID *int64 `json:"packageSubscriptionId,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// CreateBulkBookingRequest HTTP request model
type CreateBulkBookingRequest struct {
	UserID   int64             `json:"userId"`
	TenantID int64             `json:"tenantId"`
	Items    []BulkBookingItem `json:"items"`
}

// BulkBookingResult результат фиксации одного элемента группы
type BulkBookingResult struct {
	BookingID int64 `json:"bookingId"`

	ServiceID   int64  `json:"serviceId"`
	SlotID      int64  `json:"slotId"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`

	VisitorCount           int     `json:"visitorCount"`
	PackageCoveredQuantity int     `json:"packageCoveredQuantity"`
	PaidQuantity           int     `json:"paidQuantity"`
	UnitPrice              float64 `json:"unitPrice"`
	TotalPrice             float64 `json:"totalPrice"`

	Status string `json:"status"`
}

// BulkBookingResponse HTTP response model
type BulkBookingResponse struct {
	BookingGroupID string              `json:"bookingGroupId"`
	Bookings       []BulkBookingResult `json:"bookings"`
	TotalPrice     float64             `json:"totalPrice"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBulkBookingRequest) ToUseCaseRequest() *createBulkBooking.Request {
	items := make([]createBulkBooking.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = createBulkBooking.Item{
			ServiceID:             item.ServiceID,
			LockID:                item.LockID,
			SessionID:             item.SessionID,
			VisitorCount:          item.VisitorCount,
			PackageSubscriptionID: item.PackageSubscriptionID,
			Notes:                 item.Notes,
		}
	}
	return &createBulkBooking.Request{
		UserID:   r.UserID,
		TenantID: r.TenantID,
		Items:    items,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBulkBooking.Response) *BulkBookingResponse {
	bookings := make([]BulkBookingResult, len(resp.Bookings))
	for i, b := range resp.Bookings {
		bookings[i] = BulkBookingResult{
			BookingID:              b.BookingID,
			ServiceID:              b.ServiceID,
			SlotID:                 b.SlotID,
			BookingDate:            b.BookingDate.Format(domain.DateFormat),
			StartTime:              b.StartTime,
			EndTime:                b.EndTime,
			VisitorCount:           b.VisitorCount,
			PackageCoveredQuantity: b.PackageCoveredQuantity,
			PaidQuantity:           b.PaidQuantity,
			UnitPrice:              b.UnitPrice,
			TotalPrice:             b.TotalPrice,
			Status:                 string(b.Status),
		}
	}
	return &BulkBookingResponse{
		BookingGroupID: resp.BookingGroupID,
		Bookings:       bookings,
		TotalPrice:     resp.TotalPrice,
	}
}
