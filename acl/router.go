package acl

import (
	"context"
	"net"
	"strings"

	"github.com/apernet/aclengine/geo"
	"github.com/apernet/aclengine/outbound"
)

// Resolver is the name resolution contract Router needs; satisfied by
// resolver.Resolver without acl importing the resolver package.
type Resolver interface {
	Resolve(ctx context.Context, name string) (ipv4, ipv6 net.IP, err error)
}

// RouterOptions configures Router construction.
type RouterOptions struct {
	// CacheSize bounds the match-result LRU. 0 defaults to 4096.
	CacheSize int
	// DefaultOutbound names the outbound used when no rule matches. If
	// empty or not present in the outbound table, "default" is used when
	// present, else "direct"; no other outbound is picked as a fallback.
	DefaultOutbound string
}

// Router composes a compiled rule set, an outbound table, and a
// resolver into a single Outbound: resolve, match, dial. It implements
// outbound.Outbound itself so a Router can be nested as another
// Router's upstream.
type Router struct {
	ruleSet   *RuleSet[outbound.Outbound]
	outbounds map[string]outbound.Outbound
	resolver  Resolver
	fallback  outbound.Outbound
}

// NewRouter compiles rules against outbounds (direct/reject are
// auto-inserted if not already present) and builds a Router that
// resolves through resolver before matching.
func NewRouter(rules []TextRule, outbounds map[string]outbound.Outbound, resolver Resolver, loader geo.Loader, opts RouterOptions) (*Router, error) {
	table := outboundsToMap(outbounds)

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 4096
	}

	ruleSet, err := Compile(rules, table, cacheSize, loader)
	if err != nil {
		return nil, err
	}

	fallback := resolveDefaultOutbound(table, opts.DefaultOutbound)

	return &Router{ruleSet: ruleSet, outbounds: table, resolver: resolver, fallback: fallback}, nil
}

// outboundsToMap lowercases all keys and inserts "direct"/"reject"
// defaults when the caller did not supply its own.
func outboundsToMap(in map[string]outbound.Outbound) map[string]outbound.Outbound {
	out := make(map[string]outbound.Outbound, len(in)+2)
	for name, ob := range in {
		out[strings.ToLower(name)] = ob
	}
	if _, ok := out["direct"]; !ok {
		out["direct"] = outbound.NewDirect(outbound.DirectAuto, false)
	}
	if _, ok := out["reject"]; !ok {
		out["reject"] = outbound.Reject{}
	}
	return out
}

// resolveDefaultOutbound picks the fallback used when no rule matches:
// an explicit override, else "default" if present, else "direct".
func resolveDefaultOutbound(table map[string]outbound.Outbound, override string) outbound.Outbound {
	if override != "" {
		if ob, ok := table[strings.ToLower(override)]; ok {
			return ob
		}
	}
	if ob, ok := table["default"]; ok {
		return ob
	}
	return table["direct"]
}

func (r *Router) DialTCP(ctx context.Context, addr *outbound.Addr) (outbound.TCPConn, error) {
	ob, rewritten, err := r.route(ctx, addr, ProtocolTCP)
	if err != nil {
		return nil, err
	}
	return ob.DialTCP(ctx, rewritten)
}

func (r *Router) DialUDP(ctx context.Context, addr *outbound.Addr) (outbound.UDPConn, error) {
	ob, rewritten, err := r.route(ctx, addr, ProtocolUDP)
	if err != nil {
		return nil, err
	}
	return ob.DialUDP(ctx, rewritten)
}

// route resolves addr, matches it against the compiled rule set, and
// returns the chosen outbound plus a copy of addr carrying the resolved
// addresses, rewritten to the hijack target if the matched rule carried
// one. The caller's addr is left unchanged.
func (r *Router) route(ctx context.Context, addr *outbound.Addr, proto Protocol) (outbound.Outbound, *outbound.Addr, error) {
	host, err := r.buildHostInfo(ctx, addr)
	if err != nil {
		return nil, nil, &ResolveError{Detail: err.Error()}
	}

	ob, hijack, ok := r.ruleSet.MatchHost(host, proto, addr.Port)
	if !ok || ob == nil {
		ob = r.fallback
	}

	out := *addr
	out.IPv4, out.IPv6 = host.IPv4, host.IPv6
	if hijack != nil {
		if v4 := hijack.To4(); v4 != nil {
			out.IPv4, out.IPv6 = v4, nil
		} else {
			out.IPv4, out.IPv6 = nil, hijack.To16()
		}
		out.Host = hijack.String()
	}

	return ob, &out, nil
}

// buildHostInfo resolves addr.Host (unless it is already an IP literal
// or pre-resolved) into a HostInfo ready for matching.
func (r *Router) buildHostInfo(ctx context.Context, addr *outbound.Addr) (HostInfo, error) {
	if len(addr.IPv4) > 0 || len(addr.IPv6) > 0 {
		return HostInfo{Name: toLowerASCII(addr.Host), IPv4: addr.IPv4, IPv6: addr.IPv6}, nil
	}

	if ip := net.ParseIP(addr.Host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return HostInfo{IPv4: v4}, nil
		}
		return HostInfo{IPv6: ip.To16()}, nil
	}

	if r.resolver == nil {
		return HostInfo{Name: toLowerASCII(addr.Host)}, nil
	}

	ipv4, ipv6, err := r.resolver.Resolve(ctx, addr.Host)
	if err != nil {
		return HostInfo{}, err
	}
	return HostInfo{Name: toLowerASCII(addr.Host), IPv4: ipv4, IPv6: ipv6}, nil
}
