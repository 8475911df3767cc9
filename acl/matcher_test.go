package acl_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apernet/aclengine/acl"
)

func TestAllMatcher(t *testing.T) {
	t.Parallel()

	m := acl.AllMatcher{}
	assert.True(t, m.Match(acl.HostInfo{}))
	assert.True(t, m.Match(acl.NewHostInfoFromName("example.com")))
}

func TestIPMatcher_IPv4(t *testing.T) {
	t.Parallel()

	m := acl.NewIPMatcher(net.ParseIP("1.2.3.4"))
	assert.True(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("1.2.3.4")}))
	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("1.2.3.5")}))
	assert.False(t, m.Match(acl.HostInfo{IPv6: net.ParseIP("::1")}))
}

func TestIPMatcher_IPv6(t *testing.T) {
	t.Parallel()

	m := acl.NewIPMatcher(net.ParseIP("2001:db8::1"))
	assert.True(t, m.Match(acl.HostInfo{IPv6: net.ParseIP("2001:db8::1")}))
	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("1.2.3.4")}))
}

func TestCIDRMatcher_IPv4(t *testing.T) {
	t.Parallel()

	_, network, _ := net.ParseCIDR("10.0.0.0/8")
	m := acl.NewCIDRMatcher(network)
	assert.True(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("10.1.2.3")}))
	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("11.1.2.3")}))
}

func TestCIDRMatcher_IPv6(t *testing.T) {
	t.Parallel()

	_, network, _ := net.ParseCIDR("2001:db8::/32")
	m := acl.NewCIDRMatcher(network)
	assert.True(t, m.Match(acl.HostInfo{IPv6: net.ParseIP("2001:db8::1")}))
	assert.False(t, m.Match(acl.HostInfo{IPv6: net.ParseIP("2001:db9::1")}))
}

func TestDomainMatcher_Exact(t *testing.T) {
	t.Parallel()

	m := acl.NewDomainMatcher("example.com", acl.DomainExact)
	assert.True(t, m.Match(acl.NewHostInfoFromName("example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("www.example.com")))
	assert.False(t, m.Match(acl.HostInfo{}))
}

func TestDomainMatcher_Suffix(t *testing.T) {
	t.Parallel()

	m := acl.NewDomainMatcher("example.com", acl.DomainSuffix)
	assert.True(t, m.Match(acl.NewHostInfoFromName("example.com")))
	assert.True(t, m.Match(acl.NewHostInfoFromName("www.example.com")))
	assert.True(t, m.Match(acl.NewHostInfoFromName("a.b.example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("notexample.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("example.com.evil.com")))
}

func TestDomainMatcher_Wildcard(t *testing.T) {
	t.Parallel()

	m := acl.NewDomainMatcher("*.example.com", acl.DomainWildcard)
	assert.True(t, m.Match(acl.NewHostInfoFromName("www.example.com")))
	assert.True(t, m.Match(acl.NewHostInfoFromName("a.example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("example.com")))

	mStar := acl.NewDomainMatcher("a*b.com", acl.DomainWildcard)
	assert.True(t, mStar.Match(acl.NewHostInfoFromName("ab.com")))
	assert.True(t, mStar.Match(acl.NewHostInfoFromName("axyzb.com")))
	assert.False(t, mStar.Match(acl.NewHostInfoFromName("axyzc.com")))
}

func TestDomainMatcher_CaseInsensitive(t *testing.T) {
	t.Parallel()

	m := acl.NewDomainMatcher("Example.COM", acl.DomainExact)
	assert.True(t, m.Match(acl.NewHostInfoFromName("example.com")))
	assert.True(t, m.Match(acl.HostInfo{Name: "EXAMPLE.com"}))
}
