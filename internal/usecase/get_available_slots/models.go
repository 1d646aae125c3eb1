package get_available_slots

import "time"

// Request запрос доступных окон на дату
type Request struct {
	TenantID  int64
	ServiceID int64
	Date      time.Time
}

// AggregatedSlot агрегированное окно: слоты разных сотрудников с одинаковым
// интервалом схлопнуты в одну позицию с суммарной вместимостью
type AggregatedSlot struct {
	StartTime string
	EndTime   string

	TotalCapacity     int
	AvailableCapacity int

	SlotIDs []int64
}

// Response список агрегированных окон на дату, отсортированный по началу
type Response struct {
	Date  time.Time
	Slots []AggregatedSlot
}
