package acl_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apernet/aclengine/acl"
	"github.com/apernet/aclengine/geo"
)

func TestGeoSiteMatcher_Full(t *testing.T) {
	t.Parallel()

	entries := []geo.DomainEntry{{Type: geo.DomainFull, Value: "example.com"}}
	m := acl.NewGeoSiteMatcher(entries, nil)

	assert.True(t, m.Match(acl.NewHostInfoFromName("example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("www.example.com")))
}

func TestGeoSiteMatcher_Root(t *testing.T) {
	t.Parallel()

	entries := []geo.DomainEntry{{Type: geo.DomainRoot, Value: "example.com"}}
	m := acl.NewGeoSiteMatcher(entries, nil)

	assert.True(t, m.Match(acl.NewHostInfoFromName("example.com")))
	assert.True(t, m.Match(acl.NewHostInfoFromName("www.example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("notexample.com")))
}

func TestGeoSiteMatcher_Plain(t *testing.T) {
	t.Parallel()

	entries := []geo.DomainEntry{{Type: geo.DomainPlain, Value: "ads"}}
	m := acl.NewGeoSiteMatcher(entries, nil)

	assert.True(t, m.Match(acl.NewHostInfoFromName("ads.example.com")))
	assert.True(t, m.Match(acl.NewHostInfoFromName("myads.net")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("example.com")))
}

func TestGeoSiteMatcher_Regex(t *testing.T) {
	t.Parallel()

	entries := []geo.DomainEntry{{Type: geo.DomainRegexType, Regex: regexp.MustCompile(`^ads\d+\.example\.com$`)}}
	m := acl.NewGeoSiteMatcher(entries, nil)

	assert.True(t, m.Match(acl.NewHostInfoFromName("ads1.example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("ads.example.com")))
}

func TestGeoSiteMatcher_AttributeFilter_BarePresence(t *testing.T) {
	t.Parallel()

	entries := []geo.DomainEntry{
		{Type: geo.DomainFull, Value: "ad.example.com", Attributes: []geo.DomainAttribute{{Key: "ads"}}},
		{Type: geo.DomainFull, Value: "plain.example.com"},
	}
	m := acl.NewGeoSiteMatcher(entries, map[string]*string{"ads": nil})

	assert.True(t, m.Match(acl.NewHostInfoFromName("ad.example.com")))
	assert.False(t, m.Match(acl.NewHostInfoFromName("plain.example.com")))
}

func TestGeoSiteMatcher_AttributeFilter_ValueMustMatch(t *testing.T) {
	t.Parallel()

	private := "private"
	public := "public"
	entries := []geo.DomainEntry{
		{Type: geo.DomainFull, Value: "a.example.com", Attributes: []geo.DomainAttribute{{Key: "group", Value: "private"}}},
		{Type: geo.DomainFull, Value: "b.example.com", Attributes: []geo.DomainAttribute{{Key: "group", Value: "public"}}},
	}

	mPrivate := acl.NewGeoSiteMatcher(entries, map[string]*string{"group": &private})
	assert.True(t, mPrivate.Match(acl.NewHostInfoFromName("a.example.com")))
	assert.False(t, mPrivate.Match(acl.NewHostInfoFromName("b.example.com")))

	mPublic := acl.NewGeoSiteMatcher(entries, map[string]*string{"group": &public})
	assert.True(t, mPublic.Match(acl.NewHostInfoFromName("b.example.com")))
	assert.False(t, mPublic.Match(acl.NewHostInfoFromName("a.example.com")))
}

func TestGeoSiteMatcher_EmptyHostNeverMatches(t *testing.T) {
	t.Parallel()

	entries := []geo.DomainEntry{{Type: geo.DomainFull, Value: "example.com"}}
	m := acl.NewGeoSiteMatcher(entries, nil)

	assert.False(t, m.Match(acl.HostInfo{}))
}
