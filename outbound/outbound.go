// Package outbound provides the dialer contract that acl.Router delegates
// to once a rule has matched, plus a handful of concrete transports:
// direct, reject, and SOCKS5.
package outbound

import (
	"context"
	"net"
)

// Addr is a dial target: a host (name or literal), a port, and optional
// pre-resolved addresses for either address family. A Router dials with
// a copy whose Host/IPv4/IPv6 are rewritten when a matched rule carries a
// hijack address; the caller's Addr is not modified.
type Addr struct {
	Host string
	Port uint16
	IPv4 net.IP
	IPv6 net.IP
}

// String renders the address in host:port form, preferring Host when set.
func (a *Addr) String() string {
	host := a.Host
	if host == "" {
		if len(a.IPv4) > 0 {
			host = a.IPv4.String()
		} else if len(a.IPv6) > 0 {
			host = a.IPv6.String()
		}
	}
	return net.JoinHostPort(host, portString(a.Port))
}

func portString(p uint16) string {
	const digits = "0123456789"
	if p == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for p > 0 {
		i--
		buf[i] = digits[p%10]
		p /= 10
	}
	return string(buf[i:])
}

// TCPConn is a full-duplex byte stream, the subset of net.Conn a dialer
// needs to return.
type TCPConn interface {
	net.Conn
}

// UDPConn is a connectionless packet pipe bound to a single remote peer,
// the shape every outbound's UDP path returns regardless of how the
// transport actually carries datagrams underneath (raw UDP, a SOCKS5
// UDP associate session, ...).
type UDPConn interface {
	ReadFrom(p []byte) (n int, addr net.Addr, err error)
	WriteTo(p []byte, addr net.Addr) (n int, err error)
	Close() error
	LocalAddr() net.Addr
}

// Outbound is the contract every transport and acl.Router itself
// implements: dial a TCP stream or open a UDP packet pipe to addr.
type Outbound interface {
	DialTCP(ctx context.Context, addr *Addr) (TCPConn, error)
	DialUDP(ctx context.Context, addr *Addr) (UDPConn, error)
}
