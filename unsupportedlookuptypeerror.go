package stubdns

import (
	"fmt"

	"github.com/miekg/dns"
)

type UnsupportedLookupTypeError struct {
	Qtype uint16
}

func (e *UnsupportedLookupTypeError) Error() string {
	return fmt.Sprintf("unsupported lookup type %s, want A or AAAA", dns.Type(e.Qtype))
}

func (*UnsupportedLookupTypeError) Is(target error) bool {
	_, ok := target.(*UnsupportedLookupTypeError)
	return ok
}

// ErrUnsupportedLookupType is returned when Lookup is called with a type other than A or AAAA.
var ErrUnsupportedLookupType = &UnsupportedLookupTypeError{}
