package stubdns

type MalformedMessageError struct {
	Err error // underlying parse error
}

func (e *MalformedMessageError) Error() string {
	s := "malformed message"
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedMessageError) Unwrap() error {
	return e.Err
}

func (*MalformedMessageError) Is(target error) bool {
	_, ok := target.(*MalformedMessageError)
	return ok
}

// ErrMalformedMessage is returned when raw bytes do not decode as a DNS query.
var ErrMalformedMessage = &MalformedMessageError{}
