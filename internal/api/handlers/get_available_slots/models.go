package get_available_slots

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

// AggregatedSlotResponse агрегированное окно в HTTP-ответе
type AggregatedSlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"

	TotalCapacity     int `json:"totalCapacity"`
	AvailableCapacity int `json:"availableCapacity"`

	SlotIDs []int64 `json:"slotIds"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date  string                   `json:"date"` // "2026-03-15"
	Slots []AggregatedSlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AggregatedSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, AggregatedSlotResponse{
			StartTime:         s.StartTime,
			EndTime:           s.EndTime,
			TotalCapacity:     s.TotalCapacity,
			AvailableCapacity: s.AvailableCapacity,
			SlotIDs:           s.SlotIDs,
		})
	}

	return &AvailableSlotsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: slots,
	}
}
