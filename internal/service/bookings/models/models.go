package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetTenantBookingsRequest запрос на получение бронирований тенанта
type GetTenantBookingsRequest struct {
	UserID          int64      `json:"userId"`
	TenantID        int64      `json:"tenantId"`
	ServiceID       *int64     `json:"serviceId,omitempty"`       // Фильтр по услуге (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{
		TenantID:        r.TenantID,
		ServiceID:       r.ServiceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	TenantID  int64 `json:"tenantId"`
	ServiceID int64 `json:"serviceId"`
	SlotID    int64 `json:"slotId"`

	BookingDate string `json:"bookingDate"` // "2026-03-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:00"

	VisitorCount           int     `json:"visitorCount"`
	PackageCoveredQuantity int     `json:"packageCoveredQuantity"`
	PaidQuantity           int     `json:"paidQuantity"`
	UnitPrice              float64 `json:"unitPrice"`
	TotalPrice             float64 `json:"totalPrice"`

	PackageSubscriptionID *int64  `json:"packageSubscriptionId,omitempty"`
	BookingGroupID        *string `json:"bookingGroupId,omitempty"`

	Status string `json:"status"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                     b.ID,
		UserID:                 b.UserID,
		TenantID:               b.TenantID,
		ServiceID:              b.ServiceID,
		SlotID:                 b.SlotID,
		BookingDate:            b.BookingDate.Format(domain.DateFormat),
		StartTime:              b.StartTime.String(),
		EndTime:                b.EndTime.String(),
		VisitorCount:           b.VisitorCount,
		PackageCoveredQuantity: b.PackageCoveredQuantity,
		PaidQuantity:           b.PaidQuantity,
		UnitPrice:              b.UnitPrice,
		TotalPrice:             b.TotalPrice,
		PackageSubscriptionID:  b.PackageSubscriptionID,
		BookingGroupID:         b.BookingGroupID,
		Status:                 string(b.Status),
		ServiceName:            b.ServiceName,
		Notes:                  b.Notes,
		CancellationReason:     b.CancellationReason,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByTenant,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
