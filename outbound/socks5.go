package outbound

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/txthinking/socks5"
)

// SOCKS5 dials upstream through a SOCKS5 proxy, optionally authenticated
// with a username/password pair.
type SOCKS5 struct {
	Server     string
	Username   string
	Password   string
	TCPTimeout time.Duration
	UDPTimeout time.Duration
}

// NewSOCKS5 builds a SOCKS5 outbound targeting server (host:port).
func NewSOCKS5(server, username, password string) *SOCKS5 {
	return &SOCKS5{
		Server:     server,
		Username:   username,
		Password:   password,
		TCPTimeout: 10 * time.Second,
		UDPTimeout: 60 * time.Second,
	}
}

func (s *SOCKS5) client() *socks5.Client {
	return socks5.NewClient(s.Server, s.Username, s.Password, int(s.TCPTimeout.Seconds()), int(s.UDPTimeout.Seconds()))
}

func (s *SOCKS5) DialTCP(ctx context.Context, addr *Addr) (TCPConn, error) {
	c := s.client()
	conn, err := c.Dial("tcp", addr.String())
	if err != nil {
		return nil, &connectError{err: fmt.Errorf("socks5 dial to %s via %s: %w", addr.String(), s.Server, err)}
	}
	return conn, nil
}

func (s *SOCKS5) DialUDP(ctx context.Context, addr *Addr) (UDPConn, error) {
	c := s.client()
	conn, err := c.Dial("udp", addr.String())
	if err != nil {
		return nil, &connectError{err: fmt.Errorf("socks5 udp associate for %s via %s: %w", addr.String(), s.Server, err)}
	}
	return &socks5UDPConn{conn: conn, remote: addr.String()}, nil
}

// socks5UDPConn adapts the connected read/write socket socks5.Client
// returns for a UDP associate session to the UDPConn shape: the session
// is already bound to a single peer, so ReadFrom/WriteTo ignore the
// supplied net.Addr and report the configured remote instead.
type socks5UDPConn struct {
	conn   net.Conn
	remote string
}

func (c *socks5UDPConn) ReadFrom(p []byte) (int, net.Addr, error) {
	n, err := c.conn.Read(p)
	return n, c.conn.RemoteAddr(), err
}

func (c *socks5UDPConn) WriteTo(p []byte, _ net.Addr) (int, error) {
	return c.conn.Write(p)
}

func (c *socks5UDPConn) Close() error { return c.conn.Close() }

func (c *socks5UDPConn) LocalAddr() net.Addr { return c.conn.LocalAddr() }
