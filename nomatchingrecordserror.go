package stubdns

import "fmt"

type NoMatchingRecordsError struct {
	Qtype    uint16
	Response *Response // the answering response, for inspection
}

func (e *NoMatchingRecordsError) Error() string {
	return fmt.Sprintf("no %s records in answer", DnsTypeToString(e.Qtype))
}

func (*NoMatchingRecordsError) Is(target error) bool {
	_, ok := target.(*NoMatchingRecordsError)
	return ok
}

// ErrNoMatchingRecords is returned when an answer set holds no records of the requested type.
var ErrNoMatchingRecords = &NoMatchingRecordsError{}
