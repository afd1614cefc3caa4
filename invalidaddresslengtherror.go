package stubdns

import "fmt"

type InvalidAddressLengthError struct {
	Length int
}

func (e *InvalidAddressLengthError) Error() string {
	return fmt.Sprintf("invalid address length %d, want 4 or 16", e.Length)
}

func (*InvalidAddressLengthError) Is(target error) bool {
	_, ok := target.(*InvalidAddressLengthError)
	return ok
}

// ErrInvalidAddressLength is returned when a reverse-name input is neither an IPv4 nor an IPv6 address.
var ErrInvalidAddressLength = &InvalidAddressLengthError{}
