package acl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apernet/aclengine/acl"
)

func TestParseGeoSitePattern_Bare(t *testing.T) {
	t.Parallel()

	p := acl.ParseGeoSitePattern("cn")
	assert.Equal(t, "cn", p.Name)
	assert.Empty(t, p.Attrs)
}

func TestParseGeoSitePattern_BareAttribute(t *testing.T) {
	t.Parallel()

	p := acl.ParseGeoSitePattern("cn@ads")
	assert.Equal(t, "cn", p.Name)
	require.Contains(t, p.Attrs, "ads")
	assert.Nil(t, p.Attrs["ads"])
}

func TestParseGeoSitePattern_ValuedAttribute(t *testing.T) {
	t.Parallel()

	p := acl.ParseGeoSitePattern("cn@group=private")
	assert.Equal(t, "cn", p.Name)
	require.Contains(t, p.Attrs, "group")
	require.NotNil(t, p.Attrs["group"])
	assert.Equal(t, "private", *p.Attrs["group"])
}

func TestParseGeoSitePattern_MultipleAttributes(t *testing.T) {
	t.Parallel()

	p := acl.ParseGeoSitePattern("cn@ads@group=private")
	assert.Equal(t, "cn", p.Name)
	assert.Len(t, p.Attrs, 2)
	assert.Nil(t, p.Attrs["ads"])
	require.NotNil(t, p.Attrs["group"])
	assert.Equal(t, "private", *p.Attrs["group"])
}
