package stubdns

import "fmt"

type UnknownResolverError struct {
	Name string
}

func (e *UnknownResolverError) Error() string {
	return fmt.Sprintf("unknown resolver %q", e.Name)
}

func (*UnknownResolverError) Is(target error) bool {
	_, ok := target.(*UnknownResolverError)
	return ok
}

// ErrUnknownResolver is returned when a named resolver provider is not registered.
var ErrUnknownResolver = &UnknownResolverError{}
