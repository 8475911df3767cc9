package geo

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// mmdbReader wraps a single shared geoip2.Reader for the standard
// MaxMind-compatible country databases (MaxMind, GeoLite2-Country,
// DBIP-Country-Lite, GeoIP2-Country). Pre-loading is refused for these
// formats for scale reasons; one reader handle is opened and reused for
// every per-IP lookup.
type mmdbReader struct {
	db *geoip2.Reader
}

func openMMDB(path string) (*mmdbReader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, newGeoIPError(FileError, "failed to open MMDB %q: %v", path, err)
	}
	return &mmdbReader{db: db}, nil
}

func (r *mmdbReader) Lookup(ip net.IP) ([]string, error) {
	country, err := r.db.Country(ip)
	if err != nil {
		return nil, newGeoIPError(InvalidData, "MMDB lookup failed: %v", err)
	}
	code := strings.ToUpper(country.Country.IsoCode)
	if code == "" {
		return nil, nil
	}
	return []string{code}, nil
}

func (r *mmdbReader) Close() error {
	return r.db.Close()
}

func (d *mmdbGeoIPData) lookup(code string) (GeoIPSource, error) {
	return GeoIPSource{Reader: d.reader, Code: strings.ToUpper(code)}, nil
}

// mmdbGeoIPData is the loader-level state for an MMDB-backed GeoIP
// source: a single shared reader reused across every code lookup.
type mmdbGeoIPData struct {
	reader *mmdbReader
}

func loadGeoIPMMDB(path string) (*mmdbGeoIPData, error) {
	r, err := openMMDB(path)
	if err != nil {
		return nil, err
	}
	return &mmdbGeoIPData{reader: r}, nil
}
