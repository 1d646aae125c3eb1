package acquire_lock

import "time"

// Request модель запроса на захват блокировки вместимости
type Request struct {
	SlotID           int64  // ID слота
	ReservedCapacity int    // Количество резервируемых мест
	SessionID        string // ID сессии клиента (опционально; если пустой - генерируется)
}

// Response модель ответа с созданной блокировкой
type Response struct {
	LockID           string    // ID блокировки
	SessionID        string    // ID сессии, вместе с LockID нужен для validate/release
	SlotID           int64     // ID слота
	ReservedCapacity int       // Зарезервировано мест
	ExpiresAt        time.Time // Момент истечения блокировки
	ExpiresInSeconds int       // Секунд до истечения на момент создания
}
