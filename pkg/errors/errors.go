package errors

import (
	"fmt"
)

var (
	ErrNotFound         = fmt.Errorf("not found")
	ErrInvalidArg       = fmt.Errorf("invalid arg")
	ErrInvalidState     = fmt.Errorf("invalid state")
	ErrJobLocked        = fmt.Errorf("job locked")
	ErrStoreUnavailable = fmt.Errorf("store unavailable")
	ErrLaunchFailed     = fmt.Errorf("launch failed")
	ErrRunFailed        = fmt.Errorf("run failed")
	ErrTimeout          = fmt.Errorf("timed out")
	ErrNotSupported     = fmt.Errorf("not supported")
	ErrMaxExceeded      = fmt.Errorf("max length exceeded")
)
