package outbound

import (
	"context"
	"net"

	tfo "github.com/database64128/tfo-go/v2"
)

// DirectMode selects which address family Direct prefers when an Addr
// carries both an IPv4 and an IPv6 resolution.
type DirectMode int

const (
	// DirectAuto lets the standard dialer's Happy Eyeballs logic decide.
	DirectAuto DirectMode = iota
	DirectIPv4Only
	DirectIPv6Only
	DirectPreferIPv4
	DirectPreferIPv6
)

// Direct dials straight to the target address, optionally with TCP Fast
// Open. A zero Direct dials with TFO disabled in Auto mode.
type Direct struct {
	Mode        DirectMode
	FastOpen    bool
	BindAddress string // local address to bind outgoing connections to, if non-empty
}

// NewDirect builds a Direct outbound with the given mode and TFO setting.
func NewDirect(mode DirectMode, fastOpen bool) *Direct {
	return &Direct{Mode: mode, FastOpen: fastOpen}
}

func (d *Direct) dialer() tfo.Dialer {
	dialer := tfo.Dialer{
		Dialer:     net.Dialer{},
		DisableTFO: !d.FastOpen,
	}
	if d.BindAddress != "" {
		dialer.Dialer.LocalAddr = &net.TCPAddr{IP: net.ParseIP(d.BindAddress)}
	}
	return dialer
}

func (d *Direct) target(addr *Addr) string {
	ip := d.selectIP(addr)
	if ip != nil {
		return net.JoinHostPort(ip.String(), portString(addr.Port))
	}
	return addr.String()
}

func (d *Direct) selectIP(addr *Addr) net.IP {
	switch d.Mode {
	case DirectIPv4Only:
		return addr.IPv4
	case DirectIPv6Only:
		return addr.IPv6
	case DirectPreferIPv4:
		if len(addr.IPv4) > 0 {
			return addr.IPv4
		}
		return addr.IPv6
	case DirectPreferIPv6:
		if len(addr.IPv6) > 0 {
			return addr.IPv6
		}
		return addr.IPv4
	default:
		return nil
	}
}

func (d *Direct) DialTCP(ctx context.Context, addr *Addr) (TCPConn, error) {
	dialer := d.dialer()
	conn, err := dialer.DialContext(ctx, "tcp", d.target(addr))
	if err != nil {
		return nil, &connectError{err: err}
	}
	return conn, nil
}

func (d *Direct) DialUDP(ctx context.Context, addr *Addr) (UDPConn, error) {
	var ld net.ListenConfig
	if d.BindAddress != "" {
		conn, err := ld.ListenPacket(ctx, "udp", net.JoinHostPort(d.BindAddress, "0"))
		if err != nil {
			return nil, &connectError{err: err}
		}
		uc, ok := conn.(*net.UDPConn)
		if !ok {
			conn.Close()
			return nil, &connectError{err: err}
		}
		return &directUDPConn{UDPConn: uc, remote: d.target(addr)}, nil
	}

	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, &connectError{err: err}
	}
	return &directUDPConn{UDPConn: conn, remote: d.target(addr)}, nil
}

// directUDPConn pins WriteTo's destination when addr is nil, so callers
// that only ever talk to the dial target (the common case) don't need to
// resolve it themselves each call.
type directUDPConn struct {
	*net.UDPConn
	remote string
}

func (c *directUDPConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	if addr != nil {
		return c.UDPConn.WriteTo(p, addr)
	}
	raddr, err := net.ResolveUDPAddr("udp", c.remote)
	if err != nil {
		return 0, err
	}
	return c.UDPConn.WriteTo(p, raddr)
}
