package geo

import (
	"net"
	"strings"
)

// MemoryLoader is a test-only Loader backed by in-memory maps, with no
// file I/O involved at all.
type MemoryLoader struct {
	geoip   map[string][]*net.IPNet
	geosite map[string][]DomainEntry
}

// NewMemoryLoader returns an empty MemoryLoader ready for population via
// AddGeoIP/AddGeoSite.
func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		geoip:   make(map[string][]*net.IPNet),
		geosite: make(map[string][]DomainEntry),
	}
}

// AddGeoIP registers a CIDR list under a country code.
func (l *MemoryLoader) AddGeoIP(code string, cidrs []*net.IPNet) {
	l.geoip[strings.ToLower(code)] = cidrs
}

// AddGeoSite registers a domain entry list under a site code.
func (l *MemoryLoader) AddGeoSite(code string, entries []DomainEntry) {
	l.geosite[strings.ToLower(code)] = entries
}

func (l *MemoryLoader) LoadGeoIP(code string) (GeoIPSource, error) {
	cidrs, ok := l.geoip[strings.ToLower(code)]
	if !ok {
		return GeoIPSource{}, newGeoIPError(NotLoaded, "country code %q not present in memory loader", code)
	}
	return GeoIPSource{CIDRs: cidrs}, nil
}

func (l *MemoryLoader) LoadGeoSite(code string) ([]DomainEntry, error) {
	entries, ok := l.geosite[strings.ToLower(code)]
	if !ok {
		return nil, newGeoSiteError(NotLoaded, "site code %q not present in memory loader", code)
	}
	return entries, nil
}
