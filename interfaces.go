package stubdns

import (
	"context"
	"net/netip"
)

// Resolver is the client-side DNS resolution surface.
type Resolver interface {
	// Resolve queries for qtype records of domain and returns the
	// validated response.
	Resolve(ctx context.Context, domain string, qtype uint16) (*Response, error)

	// Lookup returns the A or AAAA addresses of domain in answer order.
	Lookup(ctx context.Context, domain string, qtype uint16) ([]netip.Addr, error)

	// Reverse returns the canonical host name for addr.
	Reverse(ctx context.Context, addr netip.Addr) (string, error)
}
