package release_lock

// Request запрос на снятие блокировки
type Request struct {
	LockID    string
	SessionID string
}

// Response результат снятия блокировки
// Released = false означает, что активной блокировки с такой парой
// lock_id + session_id не было (уже снята, истекла или не существовала)
type Response struct {
	LockID   string
	Released bool
}
