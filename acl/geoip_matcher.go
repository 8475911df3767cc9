package acl

import (
	"bytes"
	"net"
	"sort"
	"strings"

	"github.com/apernet/aclengine/geo"
)

// GeoIPMatcher matches a host's IPv4/IPv6 address against a named
// country's address set, either a sorted CIDR list (DAT-sourced, binary
// searched per family) or a shared database reader (MMDB/MetaDB-sourced).
// Inverse is applied per address family and OR'd, not once on the
// combined result: a host with no IPs at all never matches regardless of
// Inverse.
type GeoIPMatcher struct {
	code    string
	v4Cidrs []*net.IPNet // sorted by IP bytes
	v6Cidrs []*net.IPNet
	reader  geo.GeoIPReader
	inverse bool
}

// NewGeoIPMatcherFromSource builds a GeoIPMatcher from the raw data a
// geo.Loader hands back for a single country code.
func NewGeoIPMatcherFromSource(code string, src geo.GeoIPSource, inverse bool) *GeoIPMatcher {
	m := &GeoIPMatcher{code: strings.ToUpper(code), reader: src.Reader, inverse: inverse}
	if src.Reader != nil {
		if src.Code != "" {
			m.code = strings.ToUpper(src.Code)
		}
		return m
	}
	for _, c := range src.CIDRs {
		if c.IP.To4() != nil {
			m.v4Cidrs = append(m.v4Cidrs, c)
		} else {
			m.v6Cidrs = append(m.v6Cidrs, c)
		}
	}
	sortCIDRs(m.v4Cidrs)
	sortCIDRs(m.v6Cidrs)
	return m
}

func sortCIDRs(nets []*net.IPNet) {
	sort.Slice(nets, func(i, j int) bool {
		return bytes.Compare(nets[i].IP, nets[j].IP) < 0
	})
}

func (m *GeoIPMatcher) Match(host HostInfo) bool {
	v4Match := m.matchFamily(host.IPv4, m.v4Cidrs)
	v6Match := m.matchFamily(host.IPv6, m.v6Cidrs)
	return v4Match || v6Match
}

// matchFamily reports whether ip (which may be nil, meaning this family
// was not resolved) matches this matcher's country set, with inverse
// applied to this family alone.
func (m *GeoIPMatcher) matchFamily(ip net.IP, cidrs []*net.IPNet) bool {
	if len(ip) == 0 {
		return false
	}

	var found bool
	if m.reader != nil {
		codes, err := m.reader.Lookup(ip)
		if err != nil {
			// A lookup error is treated as "not found"; inverse then
			// flips it to a match, matching the Rust original's
			// error-as-not-found semantics.
			found = false
		} else {
			found = containsCode(codes, m.code)
		}
	} else {
		found = binarySearchCIDR(cidrs, ip)
	}

	if m.inverse {
		return !found
	}
	return found
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// binarySearchCIDR finds whether ip is contained in any of the sorted,
// non-overlapping CIDRs.
func binarySearchCIDR(cidrs []*net.IPNet, ip net.IP) bool {
	// Compare IPv4 queries in the same 4-byte form as IPv4 CIDR bases.
	if v4 := ip.To4(); v4 != nil && len(cidrs) > 0 && len(cidrs[0].IP) == net.IPv4len {
		ip = v4
	}
	left, right := 0, len(cidrs)-1
	for left <= right {
		mid := (left + right) / 2
		switch {
		case cidrs[mid].Contains(ip):
			return true
		case bytes.Compare(cidrs[mid].IP, ip) < 0:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return false
}
