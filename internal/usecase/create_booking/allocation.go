package create_booking

// splitCoverage распределяет количество посетителей между покрытием по
// абонементу и платной частью. Покрытие ограничено остатком ОДНОГО выбранного
// абонемента: covered = min(quantity, remaining), paid = quantity - covered.
// Остатки нескольких абонементов никогда не суммируются
func splitCoverage(quantity, remaining int) (covered, paid int) {
	if remaining < 0 {
		remaining = 0
	}
	covered = quantity
	if covered > remaining {
		covered = remaining
	}
	return covered, quantity - covered
}
