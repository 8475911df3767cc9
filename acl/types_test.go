package acl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apernet/aclengine/acl"
)

func TestProtocol_Matches(t *testing.T) {
	t.Parallel()

	assert.True(t, acl.ProtocolBoth.Matches(acl.ProtocolTCP))
	assert.True(t, acl.ProtocolBoth.Matches(acl.ProtocolUDP))
	assert.True(t, acl.ProtocolBoth.Matches(acl.ProtocolBoth))

	assert.True(t, acl.ProtocolTCP.Matches(acl.ProtocolBoth))
	assert.True(t, acl.ProtocolUDP.Matches(acl.ProtocolBoth))

	assert.True(t, acl.ProtocolTCP.Matches(acl.ProtocolTCP))
	assert.False(t, acl.ProtocolTCP.Matches(acl.ProtocolUDP))
	assert.False(t, acl.ProtocolUDP.Matches(acl.ProtocolTCP))
}

func TestNewHostInfoFromName_NormalizesUnicodeAndCase(t *testing.T) {
	t.Parallel()

	unicode := acl.NewHostInfoFromName("Bücher.example")
	preEncoded := acl.NewHostInfoFromName("XN--BCHER-KVA.EXAMPLE")
	assert.Equal(t, preEncoded.Name, unicode.Name)
	assert.Equal(t, "xn--bcher-kva.example", unicode.Name)
}

func TestNewHostInfoFromName_PlainASCIILowercased(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", acl.NewHostInfoFromName("Example.COM").Name)
}
