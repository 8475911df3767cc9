package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_NotConfigured(t *testing.T) {
	t.Parallel()

	l := NewFileLoader("", "")

	_, err := l.LoadGeoIP("us")
	require.Error(t, err)
	var ipErr *GeoIPError
	require.ErrorAs(t, err, &ipErr)
	assert.Equal(t, NotConfigured, ipErr.Kind)

	_, err = l.LoadGeoSite("cn")
	require.Error(t, err)
	var siteErr *GeoSiteError
	require.ErrorAs(t, err, &siteErr)
	assert.Equal(t, NotConfigured, siteErr.Kind)
}

func TestFileLoader_UnknownExtension(t *testing.T) {
	t.Parallel()

	l := NewFileLoader("geoip.bin", "geosite.bin")

	_, err := l.LoadGeoIP("us")
	require.Error(t, err)

	_, err = l.LoadGeoSite("cn")
	require.Error(t, err)
}

func TestFileLoader_SingDBGeoSite(t *testing.T) {
	t.Parallel()

	path := buildSingSiteFile(t)
	l := NewFileLoader("", path)

	entries, err := l.LoadGeoSite("cn")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// second call reuses the already-loaded singSiteLoader
	entries2, err := l.LoadGeoSite("cn")
	require.NoError(t, err)
	assert.Equal(t, entries, entries2)
}

func TestVerifyGeoSiteFile_SingDB(t *testing.T) {
	t.Parallel()

	path := buildSingSiteFile(t)
	assert.NoError(t, verifyGeoSiteFile(path))
}

func TestVerifyGeoSiteFile_UnknownFormat(t *testing.T) {
	t.Parallel()

	assert.Error(t, verifyGeoSiteFile("geosite.bin"))
}
