package stubdns

import (
	"net/netip"

	"github.com/miekg/dns"
)

// Response is a DNS response that passed exchange validation, together
// with the raw datagram it was decoded from.
type Response struct {
	Msg *dns.Msg // decoded response message
	Raw []byte   // raw bytes as received from the wire
	// Server is the endpoint that answered. It may differ from the
	// endpoint that was queried and is recorded for diagnostics only.
	Server netip.AddrPort
}

// Id returns the response transaction id.
func (r *Response) Id() uint16 {
	return r.Msg.Id
}

// Rcode returns the response code.
func (r *Response) Rcode() int {
	return r.Msg.Rcode
}

// Answers returns the answer records in response order.
func (r *Response) Answers() []dns.RR {
	return r.Msg.Answer
}

// Authority returns the authority records in response order.
func (r *Response) Authority() []dns.RR {
	return r.Msg.Ns
}

// Additional returns the additional records in response order.
func (r *Response) Additional() []dns.RR {
	return r.Msg.Extra
}

// Addrs returns the addresses of answer records whose type is exactly
// qtype, in answer order. A and AAAA answers are never conflated.
func (r *Response) Addrs(qtype uint16) (addrs []netip.Addr) {
	for _, rr := range r.Msg.Answer {
		if rr.Header().Rrtype == qtype {
			if addr := AddrFromRR(rr); addr.IsValid() {
				addrs = append(addrs, addr)
			}
		}
	}
	return
}

// FirstPTR returns the target of the first PTR answer, or the empty
// string if there is none.
func (r *Response) FirstPTR() string {
	for _, rr := range r.Msg.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return ptr.Ptr
		}
	}
	return ""
}
