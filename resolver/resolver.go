// Package resolver provides the name resolution strategies a Router
// dials through before matching a rule against a freshly resolved
// HostInfo: the host's own OS resolver, a direct DNS client speaking
// classic TCP/UDP/TLS, and DNS-over-HTTPS.
package resolver

import (
	"context"
	"net"
)

// Resolver looks up a name's first IPv4 and first IPv6 address. Either
// return value may be nil if that family has no record; an error is
// returned only when the lookup itself failed, not when a family is
// simply absent.
type Resolver interface {
	Resolve(ctx context.Context, name string) (ipv4, ipv6 net.IP, err error)
}

// splitAddrs extracts the first IPv4 and first IPv6 address from a list
// of resolved addresses, the common tail shared by every Resolver
// implementation in this package.
func splitAddrs(ips []net.IP) (ipv4, ipv6 net.IP) {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			if ipv4 == nil {
				ipv4 = v4
			}
			continue
		}
		if ipv6 == nil {
			ipv6 = ip.To16()
		}
	}
	return
}
