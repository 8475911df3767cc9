package acl_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apernet/aclengine/acl"
	"github.com/apernet/aclengine/outbound"
)

// recordingOutbound records the last address it was asked to dial and
// returns a canned error, just enough to observe routing decisions
// without opening a real socket.
type recordingOutbound struct {
	name string
	last *outbound.Addr
}

func (o *recordingOutbound) DialTCP(ctx context.Context, addr *outbound.Addr) (outbound.TCPConn, error) {
	o.last = addr
	return nil, assertErr
}

func (o *recordingOutbound) DialUDP(ctx context.Context, addr *outbound.Addr) (outbound.UDPConn, error) {
	o.last = addr
	return nil, assertErr
}

type staticResolver struct {
	ipv4, ipv6 net.IP
}

func (r staticResolver) Resolve(ctx context.Context, name string) (net.IP, net.IP, error) {
	return r.ipv4, r.ipv6, nil
}

func TestRouter_MatchesRuleAndDialsChosenOutbound(t *testing.T) {
	t.Parallel()

	proxy := &recordingOutbound{name: "proxy"}
	direct := &recordingOutbound{name: "direct"}
	table := map[string]outbound.Outbound{"proxy": proxy, "direct": direct}

	rules, err := acl.Parse("proxy(example.com)\ndirect(all)")
	require.NoError(t, err)

	router, err := acl.NewRouter(rules, table, staticResolver{ipv4: net.ParseIP("1.2.3.4")}, nil, acl.RouterOptions{})
	require.NoError(t, err)

	_, _ = router.DialTCP(context.Background(), &outbound.Addr{Host: "example.com", Port: 443})
	require.NotNil(t, proxy.last)
	assert.Nil(t, direct.last)
	assert.Equal(t, "example.com", proxy.last.Host)
	assert.True(t, proxy.last.IPv4.Equal(net.ParseIP("1.2.3.4")))

	_, _ = router.DialTCP(context.Background(), &outbound.Addr{Host: "other.com", Port: 443})
	require.NotNil(t, direct.last)
}

func TestRouter_HijackRewritesTarget(t *testing.T) {
	t.Parallel()

	proxy := &recordingOutbound{name: "proxy"}
	table := map[string]outbound.Outbound{"proxy": proxy}

	rules, err := acl.Parse("proxy(example.com, *, 9.9.9.9)")
	require.NoError(t, err)

	router, err := acl.NewRouter(rules, table, nil, nil, acl.RouterOptions{})
	require.NoError(t, err)

	_, _ = router.DialTCP(context.Background(), &outbound.Addr{Host: "example.com", Port: 443})
	require.NotNil(t, proxy.last)
	assert.Equal(t, "9.9.9.9", proxy.last.Host)
	assert.True(t, proxy.last.IPv4.Equal(net.ParseIP("9.9.9.9")))
}

func TestRouter_IPLiteralBypassesResolver(t *testing.T) {
	t.Parallel()

	direct := &recordingOutbound{name: "direct"}
	table := map[string]outbound.Outbound{"direct": direct}

	rules, err := acl.Parse("direct(1.2.3.4/32)")
	require.NoError(t, err)

	router, err := acl.NewRouter(rules, table, nil, nil, acl.RouterOptions{})
	require.NoError(t, err)

	_, _ = router.DialTCP(context.Background(), &outbound.Addr{Host: "1.2.3.4", Port: 443})
	require.NotNil(t, direct.last)
}

func TestRouter_DefaultOutboundFallback(t *testing.T) {
	t.Parallel()

	fallback := &recordingOutbound{name: "fallback"}
	table := map[string]outbound.Outbound{"default": fallback}

	router, err := acl.NewRouter(nil, table, nil, nil, acl.RouterOptions{})
	require.NoError(t, err)

	_, _ = router.DialTCP(context.Background(), &outbound.Addr{Host: "1.1.1.1", Port: 80})
	require.NotNil(t, fallback.last)
}

func TestRouter_ProtocolRestrictionAppliesToDialTCPAndDialUDP(t *testing.T) {
	t.Parallel()

	blocked := &recordingOutbound{name: "reject"}
	fallback := &recordingOutbound{name: "default"}
	table := map[string]outbound.Outbound{"reject": blocked, "default": fallback}

	rules, err := acl.Parse("reject(all, udp/443)")
	require.NoError(t, err)

	router, err := acl.NewRouter(rules, table, nil, nil, acl.RouterOptions{})
	require.NoError(t, err)

	_, _ = router.DialTCP(context.Background(), &outbound.Addr{Host: "example.com", Port: 443})
	assert.Nil(t, blocked.last)
	require.NotNil(t, fallback.last)

	_, _ = router.DialUDP(context.Background(), &outbound.Addr{Host: "example.com", Port: 443})
	require.NotNil(t, blocked.last)
}

func TestRouter_AutoInsertsDirectAndReject(t *testing.T) {
	t.Parallel()

	rules, err := acl.Parse("reject(blocked.com)")
	require.NoError(t, err)

	router, err := acl.NewRouter(rules, map[string]outbound.Outbound{}, nil, nil, acl.RouterOptions{})
	require.NoError(t, err)

	_, err = router.DialTCP(context.Background(), &outbound.Addr{Host: "blocked.com", Port: 443})
	require.Error(t, err)
}
