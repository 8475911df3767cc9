// Package acl implements an Access Control List engine that routes TCP/UDP
// connections to named outbound transports based on a compiled rule set.
package acl

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/net/idna"
)

// Protocol is the network protocol a rule or a query is restricted to.
type Protocol int

const (
	// ProtocolBoth matches both TCP and UDP.
	ProtocolBoth Protocol = iota
	ProtocolTCP
	ProtocolUDP
)

func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "tcp"
	case ProtocolUDP:
		return "udp"
	default:
		return "*"
	}
}

// Matches reports whether a rule restricted to p should fire for a query
// of protocol other. Both on either side matches unconditionally; TCP/UDP
// otherwise require an exact match.
func (p Protocol) Matches(other Protocol) bool {
	if p == ProtocolBoth || other == ProtocolBoth {
		return true
	}
	return p == other
}

// HostInfo is the match input: a possibly-empty lowercased name plus
// optional resolved IPv4/IPv6 addresses. Both the name and the address
// fields may be populated (a resolved domain) or only one of them (a
// literal IP with no name, or an unresolved domain).
type HostInfo struct {
	Name string
	IPv4 net.IP
	IPv6 net.IP
}

// NewHostInfoFromName builds a HostInfo from a domain name, lowercasing it.
func NewHostInfoFromName(name string) HostInfo {
	return HostInfo{Name: toLowerASCII(name)}
}

// NewHostInfoFromIP builds a HostInfo from a single resolved IP address.
func NewHostInfoFromIP(ip net.IP) HostInfo {
	if v4 := ip.To4(); v4 != nil {
		return HostInfo{IPv4: v4}
	}
	return HostInfo{IPv6: ip}
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s|%s|%s", h.Name, h.IPv4, h.IPv6)
}

// TextRule is a single parsed line of rule text, prior to compilation.
type TextRule struct {
	Outbound      string
	Address       string
	ProtoPort     string
	HijackAddress string
	LineNum       int
}

// CacheKey is a lightweight 64-bit fingerprint of a match query. It does
// not retain a copy of the hostname, so cache entries never hold the
// query string.
type CacheKey uint64

// ComputeCacheKey hashes (name, ipv4, ipv6, protocol, port) into a CacheKey.
func ComputeCacheKey(host HostInfo, proto Protocol, port uint16) CacheKey {
	h, err := blake2b.New(8, nil)
	if err != nil {
		// blake2b.New only fails for unsupported sizes/keys; 8 bytes with
		// no key is always valid, so this is unreachable in practice.
		panic(err)
	}
	h.Write([]byte(host.Name))
	h.Write(host.IPv4)
	h.Write(host.IPv6)
	var buf [3]byte
	buf[0] = byte(proto)
	binary.BigEndian.PutUint16(buf[1:], port)
	h.Write(buf[:])
	sum := h.Sum(nil)
	return CacheKey(binary.BigEndian.Uint64(sum))
}

// toLowerASCII normalizes a hostname for matching: internationalized
// labels are converted to their ASCII Punycode form (so "bücher.example"
// and "xn--bcher-kva.example" match the same rules), then the whole
// string is ASCII-lowercased. idna.ToASCII is a no-op on an already-ASCII
// string; inputs it rejects outright (IP literals, wildcard patterns
// containing "*") are lowercased unchanged.
func toLowerASCII(s string) string {
	if ascii, err := idna.ToASCII(s); err == nil {
		s = ascii
	}
	return lowerASCII(s)
}

func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
