package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	doh "github.com/babolivier/go-doh-client"
)

func TestNewDoH_SetsHost(t *testing.T) {
	t.Parallel()

	d := NewDoH("https://cloudflare-dns.com/dns-query")
	assert.Equal(t, "https://cloudflare-dns.com/dns-query", d.Host)
}

func TestDoH_Resolver_UsesConfiguredHost(t *testing.T) {
	t.Parallel()

	d := NewDoH("https://dns.google/dns-query")
	r := d.resolver()
	assert.Equal(t, "https://dns.google/dns-query", r.Host)
	assert.Equal(t, doh.IN, r.Class)
}
