package release_lock

import "fmt"

func validateRequest(req *Request) error {
	if req.LockID == "" {
		return fmt.Errorf("%w: lock_id is required", ErrInvalidInput)
	}
	if req.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	return nil
}
