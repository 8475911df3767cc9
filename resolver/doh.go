package resolver

import (
	"context"
	"fmt"
	"net"

	doh "github.com/babolivier/go-doh-client"
)

// DoH resolves names over DNS-over-HTTPS against a single upstream
// resolver endpoint (e.g. "https://cloudflare-dns.com/dns-query").
type DoH struct {
	Host string
}

// NewDoH builds a DoH resolver targeting host.
func NewDoH(host string) *DoH {
	return &DoH{Host: host}
}

func (d *DoH) resolver() doh.Resolver {
	return doh.Resolver{Host: d.Host, Class: doh.IN}
}

func (d *DoH) Resolve(ctx context.Context, name string) (net.IP, net.IP, error) {
	r := d.resolver()

	var ipv4, ipv6 net.IP

	aRecords, err := r.LookupA(name)
	if err != nil {
		return nil, nil, fmt.Errorf("doh A lookup for %s via %s: %w", name, d.Host, err)
	}
	for _, rec := range aRecords {
		if ip := net.ParseIP(rec.IP4); ip != nil {
			ipv4 = ip
			break
		}
	}

	aaaaRecords, err := r.LookupAAAA(name)
	if err != nil {
		return nil, nil, fmt.Errorf("doh AAAA lookup for %s via %s: %w", name, d.Host, err)
	}
	for _, rec := range aaaaRecords {
		if ip := net.ParseIP(rec.IP6); ip != nil {
			ipv6 = ip
			break
		}
	}

	return ipv4, ipv6, nil
}
