package stubdns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/proxy"
)

var defaultNetDialer net.Dialer

// Exchange performs one blocking query/response exchange with a single
// resolver endpoint. Every call to Resolve opens a fresh UDP socket
// and closes it before returning.
//
// An Exchange holds one in-progress query and is not safe for
// concurrent use; distinct outstanding queries need distinct Exchange
// instances.
type Exchange struct {
	proxy.ContextDialer                // (read-only) dialer used to open the UDP socket
	Endpoint            netip.AddrPort // (read-only) resolver endpoint to query
	Timeout             time.Duration  // applied when ctx has no deadline, zero to disable
	rateLimiter         <-chan struct{}
	logw                io.Writer
	query               *Query
}

// NewExchange returns an Exchange bound to the given resolver endpoint
// holding a fresh query. Passing nil for dialer uses a net.Dialer.
func NewExchange(dialer proxy.ContextDialer, endpoint netip.AddrPort) *Exchange {
	return NewExchangeWithOptions(dialer, endpoint, nil, nil)
}

// NewExchangeWithOptions returns an Exchange bound to the given
// resolver endpoint.
//
// Passing nil for dialer uses a net.Dialer.
// Passing nil for rateLimiter means no rate limiting.
// If logw is not nil, debug logs are written to it.
func NewExchangeWithOptions(dialer proxy.ContextDialer, endpoint netip.AddrPort, rateLimiter <-chan struct{}, logw io.Writer) *Exchange {
	if dialer == nil {
		dialer = &defaultNetDialer
	}
	return &Exchange{
		ContextDialer: dialer,
		Endpoint:      endpoint,
		Timeout:       DefaultTimeout,
		rateLimiter:   rateLimiter,
		logw:          logw,
		query:         NewQuery(),
	}
}

// Create discards any in-progress query and returns a fresh one with a
// randomized id.
func (ex *Exchange) Create() *Query {
	ex.query = NewQuery()
	return ex.query
}

// FromBytes replaces the in-progress query with one decoded from raw,
// failing with MalformedMessageError if raw does not decode.
func (ex *Exchange) FromBytes(raw []byte) (*Query, error) {
	q, err := QueryFromBytes(raw)
	if err == nil {
		ex.query = q
	}
	return q, err
}

// Query returns the in-progress query.
func (ex *Exchange) Query() *Query {
	return ex.query
}

// Resolve sends the current query to the endpoint in a single datagram
// and blocks for one reply. The reply must decode, carry the query id
// and a success response code, checked in that order; otherwise an
// error identifying the failed check is returned, carrying the decoded
// response when there is one. No state survives across calls.
func (ex *Exchange) Resolve(ctx context.Context) (resp *Response, err error) {
	wire, err := ex.query.Pack()
	if err != nil {
		return nil, &MalformedMessageError{Err: err}
	}

	if ex.Timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			ctx2, cancel := context.WithTimeout(ctx, ex.Timeout)
			defer cancel()
			ctx = ctx2
		}
	}

	if ex.rateLimiter != nil {
		<-ex.rateLimiter
	}

	network := "udp4"
	if ex.Endpoint.Addr().Is6() {
		network = "udp6"
	}

	if ex.logw != nil {
		ex.logSending(network)
	}

	conn, err := ex.DialContext(ctx, network, ex.Endpoint.String())
	if err != nil {
		return nil, wrapTimeout(err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err = conn.Write(wire); err != nil {
		return nil, wrapTimeout(err)
	}

	buf := make([]byte, dns.DefaultMsgSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, wrapTimeout(err)
	}
	raw := buf[:n]

	msg := new(dns.Msg)
	if err = msg.Unpack(raw); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	resp = &Response{Msg: msg, Raw: raw}
	// The reply may come from an endpoint other than the one queried;
	// record it for diagnostics, it is never an error.
	if server, e := netip.ParseAddrPort(conn.RemoteAddr().String()); e == nil {
		resp.Server = server
	}

	if ex.logw != nil {
		ex.logResponse(resp)
	}

	if msg.Id != ex.query.Id {
		return nil, &IdMismatchError{QueryId: ex.query.Id, ResponseId: msg.Id, Response: resp}
	}
	if msg.Rcode != dns.RcodeSuccess {
		return nil, &RcodeError{Rcode: msg.Rcode, Response: resp}
	}
	return resp, nil
}

func (ex *Exchange) logSending(network string) {
	for _, question := range ex.query.Questions {
		fmt.Fprintf(ex.logw, "SENDING %s: @%s %s %q id=%#06x\n",
			network, ex.Endpoint, DnsTypeToString(question.Qtype), question.Name, ex.query.Id)
	}
}

func (ex *Exchange) logResponse(resp *Response) {
	fmt.Fprintf(ex.logw, "RESPONSE @%s %s [%v+%v+%v A/N/E] (%d bytes) id=%#06x\n",
		resp.Server, dns.RcodeToString[resp.Rcode()],
		len(resp.Msg.Answer), len(resp.Msg.Ns), len(resp.Msg.Extra),
		len(resp.Raw), resp.Id())
}

func wrapTimeout(err error) error {
	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	return err
}
