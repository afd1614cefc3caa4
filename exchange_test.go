package stubdns

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/miekg/dns"
)

type stubKey struct {
	name  string
	qtype uint16
}

// stubDialer returns in-memory connections that answer DNS queries
// from a canned response table.
type stubDialer struct {
	responses map[stubKey]*dns.Msg
	mangleId  bool   // reply with a corrupted transaction id
	raw       []byte // reply with these bytes verbatim
}

func (d *stubDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return &stubConn{dialer: d}, nil
}

type stubConn struct {
	dialer *stubDialer
	buf    bytes.Buffer
}

func (c *stubConn) Read(p []byte) (int, error) { return c.buf.Read(p) }

func (c *stubConn) Write(p []byte) (int, error) {
	var m dns.Msg
	if err := m.Unpack(p); err != nil {
		return 0, err
	}
	if c.dialer.raw != nil {
		c.buf.Reset()
		c.buf.Write(c.dialer.raw)
		return len(p), nil
	}
	name := dns.CanonicalName(m.Question[0].Name)
	qtype := m.Question[0].Qtype
	resp, ok := c.dialer.responses[stubKey{name, qtype}]
	if !ok {
		resp = new(dns.Msg)
		resp.SetRcode(&m, dns.RcodeNameError)
	} else {
		resp = resp.Copy()
		if len(resp.Question) == 0 {
			resp.SetQuestion(name, qtype)
		}
		resp.Id = m.Id
		resp.Response = true
	}
	if c.dialer.mangleId {
		resp.Id = m.Id + 1
	}
	packed, err := resp.Pack()
	if err != nil {
		return 0, err
	}
	c.buf.Reset()
	c.buf.Write(packed)
	return len(p), nil
}

func (c *stubConn) Close() error                       { return nil }
func (c *stubConn) LocalAddr() net.Addr                { return dummyAddr("local") }
func (c *stubConn) RemoteAddr() net.Addr               { return dummyAddr("remote") }
func (c *stubConn) SetDeadline(t time.Time) error      { return nil }
func (c *stubConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *stubConn) SetWriteDeadline(t time.Time) error { return nil }

type dummyAddr string

func (d dummyAddr) Network() string { return string(d) }
func (d dummyAddr) String() string  { return string(d) }

func aRR(name, ip string) dns.RR {
	return &dns.A{Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300}, A: net.ParseIP(ip).To4()}
}

func aaaaRR(name, ip string) dns.RR {
	return &dns.AAAA{Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: 300}, AAAA: net.ParseIP(ip)}
}

func ptrRR(name, target string) dns.RR {
	return &dns.PTR{Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 300}, Ptr: dns.Fqdn(target)}
}

func cnameRR(name, target string) dns.RR {
	return &dns.CNAME{Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeCNAME, Class: dns.ClassINET, Ttl: 300}, Target: dns.Fqdn(target)}
}

var testEndpoint = netip.MustParseAddrPort("192.0.2.53:53")

func newStubExchange(dialer *stubDialer) *Exchange {
	return NewExchange(dialer, testEndpoint)
}

func TestExchangeResolvePreservesQueryId(t *testing.T) {
	t.Parallel()

	dialer := &stubDialer{responses: map[stubKey]*dns.Msg{
		{"example.org.", dns.TypeA}: {Answer: []dns.RR{aRR("example.org.", "192.0.2.1")}},
	}}
	ex := newStubExchange(dialer)
	q := ex.Create()
	if err := q.AddQuestion("example.org", dns.TypeA); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	id := q.Id

	resp, err := ex.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if q.Id != id {
		t.Errorf("query id changed from %d to %d", id, q.Id)
	}
	if resp.Id() != id {
		t.Errorf("response id = %d; want %d", resp.Id(), id)
	}
	if len(resp.Raw) == 0 {
		t.Error("response raw bytes missing")
	}
	if resp.Rcode() != dns.RcodeSuccess {
		t.Errorf("rcode = %d", resp.Rcode())
	}
}

func TestExchangeIdMismatch(t *testing.T) {
	t.Parallel()

	dialer := &stubDialer{
		responses: map[stubKey]*dns.Msg{
			{"example.org.", dns.TypeA}: {Answer: []dns.RR{aRR("example.org.", "192.0.2.1")}},
		},
		mangleId: true,
	}
	ex := newStubExchange(dialer)
	if err := ex.Query().AddQuestion("example.org", dns.TypeA); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	_, err := ex.Resolve(context.Background())
	if !errors.Is(err, ErrIdMismatch) {
		t.Fatalf("expected ErrIdMismatch, got %v", err)
	}
	var ime *IdMismatchError
	if !errors.As(err, &ime) {
		t.Fatalf("expected IdMismatchError, got %T", err)
	}
	if ime.Response == nil {
		t.Fatal("IdMismatchError does not carry the response")
	}
	if ime.Response.Id() != ime.ResponseId {
		t.Errorf("ResponseId = %d, response id = %d", ime.ResponseId, ime.Response.Id())
	}
}

func TestExchangeIdCheckedBeforeRcode(t *testing.T) {
	t.Parallel()

	// A response from an unrelated exchange may carry any rcode; the
	// id mismatch must be reported, not the foreign rcode.
	dialer := &stubDialer{responses: map[stubKey]*dns.Msg{}, mangleId: true}
	ex := newStubExchange(dialer)
	if err := ex.Query().AddQuestion("nxdomain.example", dns.TypeA); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	_, err := ex.Resolve(context.Background())
	if !errors.Is(err, ErrIdMismatch) {
		t.Fatalf("expected ErrIdMismatch, got %v", err)
	}
	if errors.Is(err, ErrRcode) {
		t.Fatalf("rcode reported before id check: %v", err)
	}
}

func TestExchangeRcodeError(t *testing.T) {
	t.Parallel()

	dialer := &stubDialer{responses: map[stubKey]*dns.Msg{}}
	ex := newStubExchange(dialer)
	if err := ex.Query().AddQuestion("nxdomain.example", dns.TypeA); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	_, err := ex.Resolve(context.Background())
	if !errors.Is(err, ErrRcode) {
		t.Fatalf("expected ErrRcode, got %v", err)
	}
	var rce *RcodeError
	if !errors.As(err, &rce) {
		t.Fatalf("expected RcodeError, got %T", err)
	}
	if rce.Rcode != dns.RcodeNameError {
		t.Errorf("Rcode = %d; want %d", rce.Rcode, dns.RcodeNameError)
	}
	if rce.Response == nil {
		t.Error("RcodeError does not carry the response")
	}
}

func TestExchangeMalformedResponse(t *testing.T) {
	t.Parallel()

	dialer := &stubDialer{raw: []byte{0, 1, 2, 3}}
	ex := newStubExchange(dialer)
	if err := ex.Query().AddQuestion("example.org", dns.TypeA); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	_, err := ex.Resolve(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	var mre *MalformedResponseError
	if !errors.As(err, &mre) || mre.Err == nil {
		t.Fatalf("error does not carry the parse error: %v", err)
	}
}

func TestExchangeCreateReplacesQuery(t *testing.T) {
	t.Parallel()

	ex := newStubExchange(&stubDialer{})
	q1 := ex.Query()
	q2 := ex.Create()
	if q1 == q2 {
		t.Fatal("Create did not replace the query")
	}
	if ex.Query() != q2 {
		t.Fatal("Exchange does not hold the created query")
	}
}

func TestExchangeFromBytes(t *testing.T) {
	t.Parallel()

	q := NewQuery()
	if err := q.AddQuestion("example.org", dns.TypePTR); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	wire, err := q.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	ex := newStubExchange(&stubDialer{})
	got, err := ex.FromBytes(wire)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if ex.Query() != got {
		t.Fatal("Exchange does not hold the decoded query")
	}
	if got.Id != q.Id || len(got.Questions) != 1 || got.Questions[0] != q.Questions[0] {
		t.Fatalf("decoded query differs: %+v", got)
	}

	if _, err = ex.FromBytes([]byte{0xff}); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
	if ex.Query() != got {
		t.Fatal("failed FromBytes replaced the query")
	}
}

func TestExchangeRateLimiter(t *testing.T) {
	t.Parallel()

	limiter := make(chan struct{}, 1)
	limiter <- struct{}{}
	dialer := &stubDialer{responses: map[stubKey]*dns.Msg{
		{"example.org.", dns.TypeA}: {Answer: []dns.RR{aRR("example.org.", "192.0.2.1")}},
	}}
	ex := NewExchangeWithOptions(dialer, testEndpoint, limiter, nil)
	if err := ex.Query().AddQuestion("example.org", dns.TypeA); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if _, err := ex.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(limiter) != 0 {
		t.Error("rate limiter token not consumed")
	}
}
