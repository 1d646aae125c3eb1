package create_booking

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	UserID    int64 `json:"userId"`
	TenantID  int64 `json:"tenantId"`
	ServiceID int64 `json:"serviceId"`

	LockID    string `json:"lockId"`
	SessionID string `json:"sessionId"`

	VisitorCount int `json:"visitorCount"`

	PackageSubscriptionID *int64 `json:"packageSubscriptionId,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID int64 `json:"bookingId"`

	SlotID      int64  `json:"slotId"`
	BookingDate string `json:"bookingDate"` // "2026-03-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:00"

	VisitorCount           int     `json:"visitorCount"`
	PackageCoveredQuantity int     `json:"packageCoveredQuantity"`
	PaidQuantity           int     `json:"paidQuantity"`
	UnitPrice              float64 `json:"unitPrice"`
	TotalPrice             float64 `json:"totalPrice"`

	Status string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		UserID:                r.UserID,
		TenantID:              r.TenantID,
		ServiceID:             r.ServiceID,
		LockID:                r.LockID,
		SessionID:             r.SessionID,
		VisitorCount:          r.VisitorCount,
		PackageSubscriptionID: r.PackageSubscriptionID,
		Notes:                 r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		BookingID:              resp.BookingID,
		SlotID:                 resp.SlotID,
		BookingDate:            resp.BookingDate.Format(domain.DateFormat),
		StartTime:              resp.StartTime,
		EndTime:                resp.EndTime,
		VisitorCount:           resp.VisitorCount,
		PackageCoveredQuantity: resp.PackageCoveredQuantity,
		PaidQuantity:           resp.PaidQuantity,
		UnitPrice:              resp.UnitPrice,
		TotalPrice:             resp.TotalPrice,
		Status:                 string(resp.Status),
	}
}
