package resolver

import (
	"context"
	"net"
)

// System resolves names through the host's configured OS resolver
// (net.DefaultResolver), the simplest and default resolution strategy.
type System struct{}

func (System) Resolve(ctx context.Context, name string) (net.IP, net.IP, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", name)
	if err != nil {
		return nil, nil, err
	}
	v4, v6 := splitAddrs(ips)
	return v4, v6, nil
}
