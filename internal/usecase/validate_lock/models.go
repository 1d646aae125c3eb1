package validate_lock

// Request запрос на проверку блокировки
type Request struct {
	LockID    string
	SessionID string
}

// Response результат проверки блокировки
// Valid = false для истекших и снятых блокировок
type Response struct {
	LockID           string
	Valid            bool
	SecondsRemaining int
}
