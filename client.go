package stubdns

import (
	"context"
	"io"
	"net/netip"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/proxy"
)

// DefaultTimeout is the per-exchange timeout applied when the caller's
// context carries no deadline.
var DefaultTimeout = time.Second * 5

var _ Resolver = (*Client)(nil) // ensure we implement interface

// Client is a stub DNS resolver client bound to a single resolver
// endpoint. It is safe for concurrent use; every operation runs a
// fresh Exchange on its own socket.
type Client struct {
	proxy.ContextDialer                 // (read-only) ContextDialer passed to NewWithOptions
	Endpoint            netip.AddrPort  // (read-only) resolver endpoint passed to NewWithOptions
	Timeout             time.Duration   // per-exchange timeout when ctx has no deadline, zero to disable
	DefaultLogWriter    io.Writer       // if not nil, write debug logs here
	rateLimiter         <-chan struct{} // (read-only) rate limiter passed to NewWithOptions
}

// New returns a Client querying an endpoint picked at random from
// DefaultRegistry.
func New() (*Client, error) {
	ep, err := DefaultRegistry.Pick("")
	if err != nil {
		return nil, err
	}
	return NewWithOptions(nil, ep, nil), nil
}

// NewWithOptions returns a Client querying the given resolver endpoint
// using the given ContextDialer.
//
// Passing nil for dialer will use a net.Dialer.
// Passing nil for rateLimiter means no rate limiting.
func NewWithOptions(dialer proxy.ContextDialer, endpoint netip.AddrPort, rateLimiter <-chan struct{}) *Client {
	if dialer == nil {
		dialer = &defaultNetDialer
	}
	return &Client{
		ContextDialer: dialer,
		Endpoint:      endpoint,
		Timeout:       DefaultTimeout,
		rateLimiter:   rateLimiter,
	}
}

// Exchange returns a fresh Exchange bound to the client's endpoint,
// holding a new query with a randomized id.
func (c *Client) Exchange() *Exchange {
	ex := NewExchangeWithOptions(c.ContextDialer, c.Endpoint, c.rateLimiter, c.DefaultLogWriter)
	ex.Timeout = c.Timeout
	return ex
}

// Resolve queries the resolver for qtype records of domain and returns
// the validated response. The query carries a single question, the
// Query opcode and the recursion-desired flag.
func (c *Client) Resolve(ctx context.Context, domain string, qtype uint16) (*Response, error) {
	ex := c.Exchange()
	if err := ex.Query().AddQuestion(domain, qtype); err != nil {
		return nil, err
	}
	return ex.Resolve(ctx)
}

// Lookup resolves domain and returns the addresses of answer records
// exactly matching qtype, in answer order. qtype must be dns.TypeA or
// dns.TypeAAAA; anything else fails with UnsupportedLookupTypeError.
// An answer set without matching records fails with
// NoMatchingRecordsError carrying the response.
func (c *Client) Lookup(ctx context.Context, domain string, qtype uint16) ([]netip.Addr, error) {
	if qtype != dns.TypeA && qtype != dns.TypeAAAA {
		return nil, &UnsupportedLookupTypeError{Qtype: qtype}
	}
	resp, err := c.Resolve(ctx, domain, qtype)
	if err != nil {
		return nil, err
	}
	addrs := resp.Addrs(qtype)
	if len(addrs) == 0 {
		return nil, &NoMatchingRecordsError{Qtype: qtype, Response: resp}
	}
	return addrs, nil
}

// Reverse looks up the canonical host name for addr with a PTR query
// in the in-addr.arpa or ip6.arpa zone and returns the first PTR
// answer's target.
func (c *Client) Reverse(ctx context.Context, addr netip.Addr) (string, error) {
	name, err := ReverseName(addr.Unmap().AsSlice())
	if err != nil {
		return "", err
	}
	resp, err := c.Resolve(ctx, name, dns.TypePTR)
	if err != nil {
		return "", err
	}
	if target := resp.FirstPTR(); target != "" {
		return target, nil
	}
	return "", &NoMatchingRecordsError{Qtype: dns.TypePTR, Response: resp}
}
