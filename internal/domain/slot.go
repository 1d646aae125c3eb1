package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Slot is a bookable time window for a service, tied to a single employee.
// Slot rows are created by external schedule generation and never deleted;
// capacity accounting happens through BookedCount and active lock reservations:
// free = OriginalCapacity - BookedCount - sum(active lock reservations).
type Slot struct {
	ID         int64
	TenantID   int64
	ServiceID  int64
	EmployeeID int64

	SlotDate  time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	OriginalCapacity int
	BookedCount      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FreeCapacity returns the uncommitted remaining capacity given the
// current sum of active (non-expired, non-released) lock reservations
func (s *Slot) FreeCapacity(activeLockReserved int) int {
	free := s.OriginalCapacity - s.BookedCount - activeLockReserved
	if free < 0 {
		return 0
	}
	return free
}

// IsFull returns true if no capacity remains even ignoring locks
func (s *Slot) IsFull() bool {
	return s.BookedCount >= s.OriginalCapacity
}

// SameWindow returns true if other covers exactly the same time window.
// Slots in the same window are interchangeable for the customer and are
// presented as one aggregated option.
func (s *Slot) SameWindow(other *Slot) bool {
	return s.StartTime == other.StartTime && s.EndTime == other.EndTime
}
