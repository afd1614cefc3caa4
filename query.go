package stubdns

import (
	"slices"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// Query is an outgoing DNS query. It stays mutable until the owning
// Exchange sends it; the transaction id is randomized at construction
// and should not be changed afterwards.
type Query struct {
	Id               uint16
	Opcode           int
	RecursionDesired bool
	Questions        []dns.Question
}

// NewQuery returns an empty recursion-desired query with a random id.
func NewQuery() *Query {
	return &Query{
		Id:               dns.Id(),
		Opcode:           dns.OpcodeQuery,
		RecursionDesired: true,
	}
}

// QueryFromBytes decodes raw wire bytes into a Query, as when
// replaying or forwarding an externally captured query.
func QueryFromBytes(raw []byte) (*Query, error) {
	var msg dns.Msg
	if err := msg.Unpack(raw); err != nil {
		return nil, &MalformedMessageError{Err: err}
	}
	return &Query{
		Id:               msg.Id,
		Opcode:           msg.Opcode,
		RecursionDesired: msg.RecursionDesired,
		Questions:        slices.Clone(msg.Question),
	}, nil
}

// AddQuestion appends an INET question for name and qtype. The name is
// IDNA encoded and made fully qualified.
func (q *Query) AddQuestion(name string, qtype uint16) error {
	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return err
	}
	q.Questions = append(q.Questions, dns.Question{
		Name:   dns.Fqdn(ascii),
		Qtype:  qtype,
		Qclass: dns.ClassINET,
	})
	return nil
}

// Msg returns the query as a dns.Msg ready for packing.
func (q *Query) Msg() *dns.Msg {
	msg := new(dns.Msg)
	msg.Id = q.Id
	msg.Opcode = q.Opcode
	msg.RecursionDesired = q.RecursionDesired
	msg.Question = slices.Clone(q.Questions)
	return msg
}

// Pack serializes the query to wire format.
func (q *Query) Pack() ([]byte, error) {
	return q.Msg().Pack()
}
