package stubdns

type MalformedResponseError struct {
	Err error // underlying parse error
}

func (e *MalformedResponseError) Error() string {
	s := "malformed response"
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (*MalformedResponseError) Is(target error) bool {
	_, ok := target.(*MalformedResponseError)
	return ok
}

// ErrMalformedResponse is returned when a reply datagram does not decode as a DNS message.
var ErrMalformedResponse = &MalformedResponseError{}
