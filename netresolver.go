package stubdns

import (
	"context"
	"net/netip"

	"github.com/miekg/dns"
)

// net.Resolver style convenience lookups layered over the client

func (c *Client) lookupNetIP(ctx context.Context, addrs []netip.Addr, host string, qtype uint16) ([]netip.Addr, error) {
	got, err := c.Lookup(ctx, host, qtype)
	return append(addrs, got...), err
}

func (c *Client) LookupNetIP(ctx context.Context, network, host string) (addrs []netip.Addr, err error) {
	if network == "ip" || network == "ip4" {
		addrs, err = c.lookupNetIP(ctx, addrs, host, dns.TypeA)
	}
	if network == "ip" || network == "ip6" {
		addrs, err = c.lookupNetIP(ctx, addrs, host, dns.TypeAAAA)
	}
	if len(addrs) > 0 {
		err = nil
	}
	return
}

func (c *Client) LookupHost(ctx context.Context, host string) (hosts []string, err error) {
	var addrs []netip.Addr
	if addrs, err = c.LookupNetIP(ctx, "ip", host); err == nil {
		for _, addr := range addrs {
			hosts = append(hosts, addr.String())
		}
	}
	return
}

func (c *Client) LookupAddr(ctx context.Context, addr string) (names []string, err error) {
	var ip netip.Addr
	if ip, err = netip.ParseAddr(addr); err == nil {
		var name string
		if name, err = c.Reverse(ctx, ip); err == nil {
			names = append(names, name)
		}
	}
	return
}
