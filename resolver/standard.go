package resolver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Network selects the transport Standard speaks to its upstream server.
type Network string

const (
	NetworkUDP    Network = "udp"
	NetworkTCP    Network = "tcp"
	NetworkTCPTLS Network = "tcp-tls"
)

// Standard resolves names by sending classic DNS messages to a single
// upstream server over UDP, TCP, or TLS-wrapped TCP.
type Standard struct {
	Server  string // host:port
	Network Network
	Timeout time.Duration
}

// NewStandard builds a Standard resolver targeting server over network.
func NewStandard(network Network, server string, timeout time.Duration) *Standard {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Standard{Server: server, Network: network, Timeout: timeout}
}

func (s *Standard) client() *dns.Client {
	return &dns.Client{Net: string(s.Network), Timeout: s.Timeout, TLSConfig: &tls.Config{ServerName: hostOnly(s.Server)}}
}

func hostOnly(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	return host
}

func (s *Standard) Resolve(ctx context.Context, name string) (net.IP, net.IP, error) {
	fqdn := dns.Fqdn(name)
	c := s.client()

	var ipv4, ipv6 net.IP
	v4, err := s.query(ctx, c, fqdn, dns.TypeA)
	if err != nil {
		return nil, nil, err
	}
	for _, ip := range v4 {
		ipv4 = ip
		break
	}

	v6, err := s.query(ctx, c, fqdn, dns.TypeAAAA)
	if err != nil {
		return nil, nil, err
	}
	for _, ip := range v6 {
		ipv6 = ip
		break
	}

	return ipv4, ipv6, nil
}

func (s *Standard) query(ctx context.Context, c *dns.Client, fqdn string, qtype uint16) ([]net.IP, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, qtype)
	msg.RecursionDesired = true

	resp, _, err := c.ExchangeContext(ctx, msg, s.Server)
	if err != nil {
		return nil, fmt.Errorf("dns query %s %s over %s: %w", fqdn, dns.TypeToString[qtype], s.Network, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("dns query %s %s: rcode %s", fqdn, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}

	var ips []net.IP
	for _, rr := range resp.Answer {
		switch rec := rr.(type) {
		case *dns.A:
			ips = append(ips, rec.A)
		case *dns.AAAA:
			ips = append(ips, rec.AAAA)
		}
	}
	return ips, nil
}
