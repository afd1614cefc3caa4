package stubdns

import (
	"strconv"

	"github.com/miekg/dns"
)

type RcodeError struct {
	Rcode    int
	Response *Response // the failing response, for inspection
}

func (e *RcodeError) Error() string {
	s, ok := dns.RcodeToString[e.Rcode]
	if !ok {
		s = strconv.Itoa(e.Rcode)
	}
	return "response code " + s
}

func (*RcodeError) Is(target error) bool {
	_, ok := target.(*RcodeError)
	return ok
}

// ErrRcode is returned when a response carries a response code other than NOERROR.
var ErrRcode = &RcodeError{}
