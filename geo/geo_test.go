package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apernet/aclengine/geo"
)

func TestErrorKind_String(t *testing.T) {
	t.Parallel()

	cases := map[geo.ErrorKind]string{
		geo.NotConfigured:  "not_configured",
		geo.FileError:      "file_error",
		geo.InvalidData:    "invalid_data",
		geo.NotLoaded:      "not_loaded",
		geo.DownloadFailed: "download_failed",
		geo.ErrorKind(99):  "unknown",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestGeoIPError_Error(t *testing.T) {
	t.Parallel()

	_, err := geo.NilLoader{}.LoadGeoIP("us")
	assert.Contains(t, err.Error(), "geoip error:")
}

func TestGeoSiteError_Error(t *testing.T) {
	t.Parallel()

	_, err := geo.NilLoader{}.LoadGeoSite("cn")
	assert.Contains(t, err.Error(), "geosite error:")
}
