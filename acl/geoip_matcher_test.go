package acl_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apernet/aclengine/acl"
	"github.com/apernet/aclengine/geo"
)

func cidrs(t *testing.T, specs ...string) []*net.IPNet {
	t.Helper()
	out := make([]*net.IPNet, 0, len(specs))
	for _, s := range specs {
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			t.Fatalf("bad CIDR %q: %v", s, err)
		}
		out = append(out, n)
	}
	return out
}

func TestGeoIPMatcher_CIDRList(t *testing.T) {
	t.Parallel()

	src := geo.GeoIPSource{CIDRs: cidrs(t, "1.0.0.0/24", "8.8.8.0/24", "203.0.113.0/24")}
	m := acl.NewGeoIPMatcherFromSource("US", src, false)

	assert.True(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("8.8.8.8")}))
	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("9.9.9.9")}))
}

func TestGeoIPMatcher_Inverse(t *testing.T) {
	t.Parallel()

	src := geo.GeoIPSource{CIDRs: cidrs(t, "8.8.8.0/24")}
	m := acl.NewGeoIPMatcherFromSource("US", src, true)

	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("8.8.8.8")}))
	assert.True(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("9.9.9.9")}))
}

func TestGeoIPMatcher_NoIPNeverMatchesEvenInverse(t *testing.T) {
	t.Parallel()

	src := geo.GeoIPSource{CIDRs: cidrs(t, "8.8.8.0/24")}
	m := acl.NewGeoIPMatcherFromSource("US", src, true)

	assert.False(t, m.Match(acl.HostInfo{Name: "example.com"}))
}

func TestGeoIPMatcher_PerFamilyInverseIsOred(t *testing.T) {
	t.Parallel()

	// IPv4 set contains the host's v4 address (so with inverse=true the v4
	// side does not match), but the host's v6 address is absent from an (empty)
	// v6 set, so inverse should flip the v6 side to a match and OR wins.
	src := geo.GeoIPSource{CIDRs: cidrs(t, "8.8.8.0/24")}
	m := acl.NewGeoIPMatcherFromSource("US", src, true)

	host := acl.HostInfo{IPv4: net.ParseIP("8.8.8.8"), IPv6: net.ParseIP("2001:db8::1")}
	assert.True(t, m.Match(host))
}

type fakeReader struct {
	codes map[string][]string
}

func (f *fakeReader) Lookup(ip net.IP) ([]string, error) {
	return f.codes[ip.String()], nil
}

func TestGeoIPMatcher_ReaderBacked(t *testing.T) {
	t.Parallel()

	reader := &fakeReader{codes: map[string][]string{"8.8.8.8": {"US"}}}
	src := geo.GeoIPSource{Reader: reader, Code: "us"}
	m := acl.NewGeoIPMatcherFromSource("us", src, false)

	assert.True(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("8.8.8.8")}))
	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("1.1.1.1")}))
}

type erroringReader struct{}

func (erroringReader) Lookup(net.IP) ([]string, error) { return nil, assertErr }

var assertErr = &net.AddrError{Err: "boom"}

func TestGeoIPMatcher_ReaderErrorTreatedAsNotFound(t *testing.T) {
	t.Parallel()

	src := geo.GeoIPSource{Reader: erroringReader{}, Code: "us"}

	m := acl.NewGeoIPMatcherFromSource("us", src, false)
	assert.False(t, m.Match(acl.HostInfo{IPv4: net.ParseIP("8.8.8.8")}))

	mInverse := acl.NewGeoIPMatcherFromSource("us", src, true)
	assert.True(t, mInverse.Match(acl.HostInfo{IPv4: net.ParseIP("8.8.8.8")}))
}
