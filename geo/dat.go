package geo

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"

	router "github.com/v2fly/v2ray-core/v5/app/router/routercommon"
	"google.golang.org/protobuf/proto"
)

// datGeoIPData is the result of pre-loading a V2Ray-compatible GeoIP.dat
// container: every country code's CIDR list, keyed lowercase.
type datGeoIPData struct {
	byCode map[string][]*net.IPNet
}

func loadGeoIPDat(path string) (*datGeoIPData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, newGeoIPError(FileError, "failed to read %q: %v", path, err)
	}
	list := new(router.GeoIPList)
	if err := proto.Unmarshal(b, list); err != nil {
		return nil, newGeoIPError(InvalidData, "failed to decode GeoIP DAT %q: %v", path, err)
	}

	out := &datGeoIPData{byCode: make(map[string][]*net.IPNet, len(list.GetEntry()))}
	for _, entry := range list.GetEntry() {
		code := strings.ToLower(entry.GetCountryCode())
		cidrs := make([]*net.IPNet, 0, len(entry.GetCidr()))
		for _, c := range entry.GetCidr() {
			ipLen := len(c.GetIp())
			if ipLen != net.IPv4len && ipLen != net.IPv6len {
				continue
			}
			mask := net.CIDRMask(int(c.GetPrefix()), ipLen*8)
			cidrs = append(cidrs, &net.IPNet{IP: net.IP(c.GetIp()), Mask: mask})
		}
		out.byCode[code] = cidrs
	}
	return out, nil
}

func (d *datGeoIPData) lookup(code string) (GeoIPSource, error) {
	cidrs, ok := d.byCode[strings.ToLower(code)]
	if !ok {
		return GeoIPSource{}, newGeoIPError(NotLoaded, "country code %q not found in GeoIP DAT", code)
	}
	return GeoIPSource{CIDRs: cidrs}, nil
}

// datGeoSiteData is the result of pre-loading a V2Ray-compatible
// geosite.dat container: every site code's domain entry list, keyed
// lowercase.
type datGeoSiteData struct {
	byCode map[string][]DomainEntry
}

// Domain type numeric values as emitted by the V2Ray-compatible protobuf
// schema: Plain=0, Regex=1, RootDomain(Domain)=2, Full=3.
const (
	datTypePlain = 0
	datTypeRegex = 1
	datTypeRoot  = 2
	datTypeFull  = 3
)

func loadGeoSiteDat(path string) (*datGeoSiteData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, newGeoSiteError(FileError, "failed to read %q: %v", path, err)
	}
	list := new(router.GeoSiteList)
	if err := proto.Unmarshal(b, list); err != nil {
		return nil, newGeoSiteError(InvalidData, "failed to decode GeoSite DAT %q: %v", path, err)
	}

	out := &datGeoSiteData{byCode: make(map[string][]DomainEntry, len(list.GetEntry()))}
	for _, site := range list.GetEntry() {
		code := strings.ToLower(site.GetCountryCode())
		domains := make([]DomainEntry, 0, len(site.GetDomain()))
		for _, d := range site.GetDomain() {
			entry, ok := convertDatDomain(d)
			if !ok {
				continue
			}
			domains = append(domains, entry)
		}
		out.byCode[code] = domains
	}
	return out, nil
}

func convertDatDomain(d *router.Domain) (DomainEntry, bool) {
	value := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(d.GetValue()), "."))
	if value == "" {
		return DomainEntry{}, false
	}

	attrs := make([]DomainAttribute, 0, len(d.GetAttribute()))
	for _, a := range d.GetAttribute() {
		switch v := a.GetTypedValue().(type) {
		case *router.Domain_Attribute_BoolValue:
			value := ""
			if v.BoolValue {
				value = "true"
			}
			attrs = append(attrs, DomainAttribute{Key: strings.ToLower(a.GetKey()), Value: value})
		case *router.Domain_Attribute_IntValue:
			attrs = append(attrs, DomainAttribute{Key: strings.ToLower(a.GetKey()), Value: fmt.Sprintf("%d", v.IntValue)})
		default:
			attrs = append(attrs, DomainAttribute{Key: strings.ToLower(a.GetKey())})
		}
	}

	switch int32(d.GetType()) {
	case datTypePlain:
		return DomainEntry{Type: DomainPlain, Value: value, Attributes: attrs}, true
	case datTypeFull:
		return DomainEntry{Type: DomainFull, Value: value, Attributes: attrs}, true
	case datTypeRoot:
		return DomainEntry{Type: DomainRoot, Value: value, Attributes: attrs}, true
	case datTypeRegex:
		re, err := regexp.Compile(value)
		if err != nil {
			// Unparseable regexes are silently dropped, consistent with
			// the source formats' own tolerance for bad entries.
			return DomainEntry{}, false
		}
		return DomainEntry{Type: DomainRegexType, Regex: re, Attributes: attrs}, true
	default:
		return DomainEntry{}, false
	}
}

func (d *datGeoSiteData) lookup(code string) ([]DomainEntry, error) {
	entries, ok := d.byCode[strings.ToLower(code)]
	if !ok {
		return nil, newGeoSiteError(NotLoaded, "site code %q not found in GeoSite DAT", code)
	}
	return entries, nil
}
