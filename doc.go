// Package stubdns is a stub DNS resolver client.
//
// It builds a query for a domain name and record type, sends it to a
// chosen resolver endpoint in a single UDP datagram, blocks for one
// reply and validates it before extracting typed records. Wire format
// handling is delegated to github.com/miekg/dns.
//
// There is no caching, no TCP fallback for truncated replies and no
// retrying; every failure surfaces to the caller as a typed error.
package stubdns
