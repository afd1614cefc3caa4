package stubdns

import (
	rand "math/rand/v2"
	"net/netip"
	"slices"
	"sync"
)

// dnsPort is the standard DNS port.
const dnsPort = 53

// Registry maps resolver provider names to their public endpoints. The
// provider table is immutable after construction; Pick is safe for
// concurrent use.
type Registry struct {
	mu        sync.Mutex // protects rnd
	rnd       *rand.Rand
	providers map[string][]netip.AddrPort
	names     []string
}

// DefaultRegistry lists well-known public resolver services.
var DefaultRegistry = NewRegistry(nil, map[string][]netip.AddrPort{
	"cloudflare": Endpoints("1.1.1.1", "1.0.0.1"),
	"google":     Endpoints("8.8.8.8", "8.8.4.4"),
	"quad9":      Endpoints("9.9.9.9", "149.112.112.112"),
	"opendns":    Endpoints("208.67.222.222", "208.67.220.220"),
})

// Endpoints converts textual IP addresses into resolver endpoints on
// the standard DNS port. It panics on malformed input.
func Endpoints(addrs ...string) (eps []netip.AddrPort) {
	for _, s := range addrs {
		eps = append(eps, netip.AddrPortFrom(netip.MustParseAddr(s), dnsPort))
	}
	return
}

// NewRegistry returns a Registry for the given provider table, using
// src when picking endpoints. Passing nil for src uses a randomly
// seeded PCG. Providers with no endpoints are dropped.
func NewRegistry(src rand.Source, providers map[string][]netip.AddrPort) *Registry {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	r := &Registry{
		rnd:       rand.New(src),
		providers: make(map[string][]netip.AddrPort, len(providers)),
	}
	for name, eps := range providers {
		if len(eps) > 0 {
			r.providers[name] = slices.Clone(eps)
			r.names = append(r.names, name)
		}
	}
	slices.Sort(r.names)
	return r
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Endpoints returns the endpoints registered for the named provider,
// or nil if the provider is not registered.
func (r *Registry) Endpoints(name string) []netip.AddrPort {
	return slices.Clone(r.providers[name])
}

// Pick returns a uniformly random endpoint from the named provider. If
// name is empty, a provider is first picked uniformly at random.
func (r *Registry) Pick(name string) (ep netip.AddrPort, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" && len(r.names) > 0 {
		name = r.names[r.rnd.IntN(len(r.names))]
	}
	eps, ok := r.providers[name]
	if !ok {
		return netip.AddrPort{}, &UnknownResolverError{Name: name}
	}
	return eps[r.rnd.IntN(len(eps))], nil
}

// PickResolver returns a random endpoint from DefaultRegistry.
func PickResolver(name string) (netip.AddrPort, error) {
	return DefaultRegistry.Pick(name)
}
