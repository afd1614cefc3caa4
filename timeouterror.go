package stubdns

type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	s := "query timed out"
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Timeout reports this as a timeout to net.Error inspecting callers.
func (*TimeoutError) Timeout() bool {
	return true
}

func (*TimeoutError) Is(target error) bool {
	_, ok := target.(*TimeoutError)
	return ok
}

// ErrTimeout is returned when the exchange deadline expires before a reply arrives.
var ErrTimeout = &TimeoutError{}
