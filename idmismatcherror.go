package stubdns

import "fmt"

type IdMismatchError struct {
	QueryId    uint16
	ResponseId uint16
	Response   *Response // the offending response, for inspection
}

func (e *IdMismatchError) Error() string {
	return fmt.Sprintf("response id %#06x does not match query id %#06x", e.ResponseId, e.QueryId)
}

func (*IdMismatchError) Is(target error) bool {
	_, ok := target.(*IdMismatchError)
	return ok
}

// ErrIdMismatch is returned when a response carries a transaction id other than the query's.
var ErrIdMismatch = &IdMismatchError{}
