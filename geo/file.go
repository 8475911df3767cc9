package geo

import (
	"fmt"
	"sync"
)

// FileLoader is a Loader backed by on-disk GeoIP/GeoSite database files,
// with the format always detected from each path's extension; there is
// no way to override the detected format. GeoIP DAT and GeoSite DAT are pre-loaded once into maps;
// GeoIP MMDB/MetaDB open a single shared reader; GeoSite Sing-DB opens a
// per-code lazy loader. Pre-loading is refused for MMDB/MetaDB and
// Sing-DB for scale reasons (spec §4.4).
type FileLoader struct {
	geoIPPath   string
	geoSitePath string

	mu sync.Mutex

	geoIPDat    *datGeoIPData
	geoIPMMDB   *mmdbGeoIPData
	geoIPMeta   *metaGeoIPData
	geoIPFormat GeoIPFormat
	geoIPReady  bool

	geoSiteDat    *datGeoSiteData
	geoSiteSing   *singSiteLoader
	geoSiteFormat GeoSiteFormat
	geoSiteReady  bool
}

// NewFileLoader builds a FileLoader for the given GeoIP and GeoSite
// database paths. Either path may be empty, in which case calls to the
// matching Load method fail with NotConfigured. No file I/O happens
// until the first matching LoadGeoIP/LoadGeoSite call (lazy format
// detection and, for DAT formats, lazy pre-loading).
func NewFileLoader(geoIPPath, geoSitePath string) *FileLoader {
	return &FileLoader{geoIPPath: geoIPPath, geoSitePath: geoSitePath}
}

func (l *FileLoader) ensureGeoIPLoaded() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.geoIPReady {
		return nil
	}
	if l.geoIPPath == "" {
		return newGeoIPError(NotConfigured, "no GeoIP database path configured; set acl.geoip")
	}

	format, err := DetectGeoIPFormat(l.geoIPPath)
	if err != nil {
		return err
	}
	l.geoIPFormat = format

	switch format {
	case GeoIPFormatDat:
		data, err := loadGeoIPDat(l.geoIPPath)
		if err != nil {
			return err
		}
		l.geoIPDat = data
	case GeoIPFormatMMDB:
		data, err := loadGeoIPMMDB(l.geoIPPath)
		if err != nil {
			return err
		}
		l.geoIPMMDB = data
	case GeoIPFormatMetaDB:
		data, err := loadGeoIPMetaDB(l.geoIPPath)
		if err != nil {
			return err
		}
		l.geoIPMeta = data
	default:
		return newGeoIPError(InvalidData, "unsupported GeoIP format %v", format)
	}
	l.geoIPReady = true
	return nil
}

func (l *FileLoader) ensureGeoSiteLoaded() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.geoSiteReady {
		return nil
	}
	if l.geoSitePath == "" {
		return newGeoSiteError(NotConfigured, "no GeoSite database path configured; set acl.geosite")
	}

	format, err := DetectGeoSiteFormat(l.geoSitePath)
	if err != nil {
		return err
	}
	l.geoSiteFormat = format

	switch format {
	case GeoSiteFormatDat:
		data, err := loadGeoSiteDat(l.geoSitePath)
		if err != nil {
			return err
		}
		l.geoSiteDat = data
	case GeoSiteFormatSingDB:
		loader, err := newSingSiteLoader(l.geoSitePath)
		if err != nil {
			return err
		}
		l.geoSiteSing = loader
	default:
		return newGeoSiteError(InvalidData, "unsupported GeoSite format %v", format)
	}
	l.geoSiteReady = true
	return nil
}

func (l *FileLoader) LoadGeoIP(code string) (GeoIPSource, error) {
	if err := l.ensureGeoIPLoaded(); err != nil {
		return GeoIPSource{}, err
	}
	switch l.geoIPFormat {
	case GeoIPFormatDat:
		return l.geoIPDat.lookup(code)
	case GeoIPFormatMMDB:
		return l.geoIPMMDB.lookup(code)
	case GeoIPFormatMetaDB:
		return l.geoIPMeta.lookup(code)
	default:
		return GeoIPSource{}, newGeoIPError(InvalidData, "unsupported GeoIP format")
	}
}

func (l *FileLoader) LoadGeoSite(code string) ([]DomainEntry, error) {
	if err := l.ensureGeoSiteLoaded(); err != nil {
		return nil, err
	}
	switch l.geoSiteFormat {
	case GeoSiteFormatDat:
		return l.geoSiteDat.lookup(code)
	case GeoSiteFormatSingDB:
		return l.geoSiteSing.LoadGeoSite(code)
	default:
		return nil, newGeoSiteError(InvalidData, "unsupported GeoSite format")
	}
}

// verifyGeoIPFile re-decodes path in isolation (without mutating any
// FileLoader state), used by the Auto loader to validate a freshly
// downloaded file before it replaces the existing one.
func verifyGeoIPFile(path string) error {
	format, err := DetectGeoIPFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case GeoIPFormatDat:
		_, err := loadGeoIPDat(path)
		return err
	case GeoIPFormatMMDB:
		r, err := openMMDB(path)
		if err != nil {
			return err
		}
		return r.Close()
	case GeoIPFormatMetaDB:
		r, err := openMetaDB(path)
		if err != nil {
			return err
		}
		return r.Close()
	default:
		return fmt.Errorf("unsupported GeoIP format")
	}
}

// verifyGeoSiteFile re-decodes path in isolation, used by the Auto loader.
func verifyGeoSiteFile(path string) error {
	format, err := DetectGeoSiteFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case GeoSiteFormatDat:
		_, err := loadGeoSiteDat(path)
		return err
	case GeoSiteFormatSingDB:
		return verifySingSite(path)
	default:
		return fmt.Errorf("unsupported GeoSite format")
	}
}
