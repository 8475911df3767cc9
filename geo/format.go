package geo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// GeoIPFormat is the on-disk format of a GeoIP database file.
type GeoIPFormat int

const (
	GeoIPFormatDat GeoIPFormat = iota
	GeoIPFormatMMDB
	GeoIPFormatMetaDB
)

// GeoSiteFormat is the on-disk format of a GeoSite database file.
type GeoSiteFormat int

const (
	GeoSiteFormatDat GeoSiteFormat = iota
	GeoSiteFormatSingDB
)

// DetectGeoIPFormat infers a GeoIP format from a file's extension.
func DetectGeoIPFormat(path string) (GeoIPFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat":
		return GeoIPFormatDat, nil
	case ".mmdb":
		return GeoIPFormatMMDB, nil
	case ".metadb":
		return GeoIPFormatMetaDB, nil
	default:
		return 0, newGeoIPError(InvalidData, "cannot determine GeoIP format from %q; supported extensions are .dat, .mmdb, .metadb", path)
	}
}

// DetectGeoSiteFormat infers a GeoSite format from a file's extension.
func DetectGeoSiteFormat(path string) (GeoSiteFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat":
		return GeoSiteFormatDat, nil
	case ".db":
		return GeoSiteFormatSingDB, nil
	default:
		return 0, newGeoSiteError(InvalidData, "cannot determine GeoSite format from %q; supported extensions are .dat, .db", path)
	}
}

func (f GeoIPFormat) String() string {
	switch f {
	case GeoIPFormatDat:
		return "dat"
	case GeoIPFormatMMDB:
		return "mmdb"
	case GeoIPFormatMetaDB:
		return "metadb"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

func (f GeoSiteFormat) String() string {
	switch f {
	case GeoSiteFormatDat:
		return "dat"
	case GeoSiteFormatSingDB:
		return "sing-db"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}
