package acl

import (
	"bytes"
	"net"
)

// Matcher is the single capability every matcher variant exposes: given a
// HostInfo, report whether it matches.
type Matcher interface {
	Match(host HostInfo) bool
}

// AllMatcher matches every host.
type AllMatcher struct{}

func (AllMatcher) Match(HostInfo) bool { return true }

// IPMatcher matches a host whose IPv4 or IPv6 address (depending on the
// family of the configured literal) equals the configured address.
type IPMatcher struct {
	ip net.IP
	v4 bool
}

// NewIPMatcher builds a Matcher for a single IP literal.
func NewIPMatcher(ip net.IP) *IPMatcher {
	if v4 := ip.To4(); v4 != nil {
		return &IPMatcher{ip: v4, v4: true}
	}
	return &IPMatcher{ip: ip.To16(), v4: false}
}

func (m *IPMatcher) Match(host HostInfo) bool {
	if m.v4 {
		return len(host.IPv4) > 0 && bytes.Equal(host.IPv4.To4(), m.ip)
	}
	return len(host.IPv6) > 0 && bytes.Equal(host.IPv6.To16(), m.ip)
}

// CIDRMatcher matches a host whose same-family address lies within net.
type CIDRMatcher struct {
	network *net.IPNet
	v4      bool
}

// NewCIDRMatcher builds a Matcher for a CIDR literal.
func NewCIDRMatcher(network *net.IPNet) *CIDRMatcher {
	return &CIDRMatcher{network: network, v4: network.IP.To4() != nil}
}

func (m *CIDRMatcher) Match(host HostInfo) bool {
	if m.v4 {
		return len(host.IPv4) > 0 && m.network.Contains(host.IPv4)
	}
	return len(host.IPv6) > 0 && m.network.Contains(host.IPv6)
}

// DomainMatchMode selects how DomainMatcher compares a pattern.
type DomainMatchMode int

const (
	DomainExact DomainMatchMode = iota
	DomainWildcard
	DomainSuffix
)

// DomainMatcher matches a host by name using one of three modes.
type DomainMatcher struct {
	pattern string
	mode    DomainMatchMode
}

// NewDomainMatcher builds a DomainMatcher, lowercasing pattern.
func NewDomainMatcher(pattern string, mode DomainMatchMode) *DomainMatcher {
	return &DomainMatcher{pattern: toLowerASCII(pattern), mode: mode}
}

func (m *DomainMatcher) Match(host HostInfo) bool {
	if host.Name == "" {
		return false
	}
	name := toLowerASCII(host.Name)
	switch m.mode {
	case DomainExact:
		return name == m.pattern
	case DomainSuffix:
		return name == m.pattern || (len(name) > len(m.pattern) && name[len(name)-len(m.pattern)-1] == '.' && name[len(name)-len(m.pattern):] == m.pattern)
	case DomainWildcard:
		return wildcardMatch(name, m.pattern)
	default:
		return false
	}
}

// wildcardMatch implements '*' matching any (possibly empty) sequence of
// characters, via recursive backtracking over the pattern.
func wildcardMatch(s, pattern string) bool {
	return deepMatch([]rune(s), []rune(pattern))
}

func deepMatch(s, p []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	if p[0] == '*' {
		return deepMatch(s, p[1:]) || (len(s) > 0 && deepMatch(s[1:], p))
	}
	if len(s) == 0 || s[0] != p[0] {
		return false
	}
	return deepMatch(s[1:], p[1:])
}
