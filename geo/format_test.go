package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apernet/aclengine/geo"
)

func TestDetectGeoIPFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want geo.GeoIPFormat
	}{
		{"geoip.dat", geo.GeoIPFormatDat},
		{"GeoIP.MMDB", geo.GeoIPFormatMMDB},
		{"geoip.metadb", geo.GeoIPFormatMetaDB},
	}
	for _, c := range cases {
		got, err := geo.DetectGeoIPFormat(c.path)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestDetectGeoIPFormat_Unknown(t *testing.T) {
	t.Parallel()

	_, err := geo.DetectGeoIPFormat("geoip.txt")
	require.Error(t, err)
	var geoErr *geo.GeoIPError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, geo.InvalidData, geoErr.Kind)
}

func TestDetectGeoSiteFormat(t *testing.T) {
	t.Parallel()

	got, err := geo.DetectGeoSiteFormat("geosite.dat")
	require.NoError(t, err)
	assert.Equal(t, geo.GeoSiteFormatDat, got)

	got, err = geo.DetectGeoSiteFormat("geosite.db")
	require.NoError(t, err)
	assert.Equal(t, geo.GeoSiteFormatSingDB, got)
}

func TestDetectGeoSiteFormat_Unknown(t *testing.T) {
	t.Parallel()

	_, err := geo.DetectGeoSiteFormat("geosite.bin")
	require.Error(t, err)
}

func TestGeoIPFormat_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dat", geo.GeoIPFormatDat.String())
	assert.Equal(t, "mmdb", geo.GeoIPFormatMMDB.String())
	assert.Equal(t, "metadb", geo.GeoIPFormatMetaDB.String())
}

func TestGeoSiteFormat_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dat", geo.GeoSiteFormatDat.String())
	assert.Equal(t, "sing-db", geo.GeoSiteFormatSingDB.String())
}
