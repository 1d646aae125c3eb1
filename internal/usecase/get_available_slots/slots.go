package get_available_slots

import (
	"sort"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// aggregateSlots схлопывает пер-сотрудниковые слоты с одинаковым временным
// интервалом в одну позицию. Вместимость суммируется, активные блокировки
// вычитаются из доступной части. Результат не зависит от порядка входа:
// окна сортируются по началу, ID слотов внутри окна - по возрастанию
func aggregateSlots(slots []*domain.Slot, activeLocks map[int64]int) []AggregatedSlot {
	type windowKey struct {
		start string
		end   string
	}

	windows := make(map[windowKey]*AggregatedSlot)

	for _, s := range slots {
		key := windowKey{start: s.StartTime.String(), end: s.EndTime.String()}
		w, ok := windows[key]
		if !ok {
			w = &AggregatedSlot{StartTime: key.start, EndTime: key.end}
			windows[key] = w
		}
		w.TotalCapacity += s.OriginalCapacity
		w.AvailableCapacity += s.FreeCapacity(activeLocks[s.ID])
		w.SlotIDs = append(w.SlotIDs, s.ID)
	}

	result := make([]AggregatedSlot, 0, len(windows))
	for _, w := range windows {
		sort.Slice(w.SlotIDs, func(i, j int) bool { return w.SlotIDs[i] < w.SlotIDs[j] })
		result = append(result, *w)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].EndTime < result[j].EndTime
	})

	return result
}
