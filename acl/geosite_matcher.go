package acl

import (
	"strings"

	"github.com/apernet/aclengine/geo"
	"github.com/apernet/aclengine/internal/domainindex"
)

// GeoSiteMatcher matches a host name against a named, attribute-tagged
// domain list. Full/RootDomain entries are served by a compact index for
// O(domain-depth) lookup; Plain (substring) and Regex entries fall back
// to a linear scan. An attribute filter, if configured, is applied once
// at construction by rebuilding the index from only the entries that
// satisfy it — the unfiltered entry list is dropped afterward so a
// narrow filter doesn't keep the full list resident in memory.
type GeoSiteMatcher struct {
	index   *domainindex.Index
	plain   []geo.DomainEntry
	regexes []geo.DomainEntry
}

// NewGeoSiteMatcher builds a GeoSiteMatcher from raw domain entries,
// optionally filtering by required attributes (nil/empty means no
// filter).
func NewGeoSiteMatcher(entries []geo.DomainEntry, requiredAttrs map[string]*string) *GeoSiteMatcher {
	if len(requiredAttrs) > 0 {
		filtered := make([]geo.DomainEntry, 0, len(entries))
		for _, e := range entries {
			if hasAttributes(e, requiredAttrs) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	b := domainindex.NewBuilder()
	var plain, regexes []geo.DomainEntry
	for _, e := range entries {
		switch e.Type {
		case geo.DomainFull:
			b.AddExact(e.Value)
		case geo.DomainRoot:
			b.AddRootSuffix(e.Value)
		case geo.DomainPlain:
			plain = append(plain, e)
		case geo.DomainRegexType:
			regexes = append(regexes, e)
		}
	}

	return &GeoSiteMatcher{index: b.Build(), plain: plain, regexes: regexes}
}

func hasAttributes(e geo.DomainEntry, required map[string]*string) bool {
	for key, expected := range required {
		var found *string
		for _, a := range e.Attributes {
			if a.Key == key {
				v := a.Value
				found = &v
				break
			}
		}
		if found == nil {
			return false
		}
		if expected != nil && *found != *expected {
			return false
		}
	}
	return true
}

func (m *GeoSiteMatcher) Match(host HostInfo) bool {
	if host.Name == "" {
		return false
	}
	name := strings.ToLower(host.Name)

	if m.index.Match(name) {
		return true
	}
	for _, e := range m.plain {
		if strings.Contains(name, e.Value) {
			return true
		}
	}
	for _, e := range m.regexes {
		if e.Regex != nil && e.Regex.MatchString(name) {
			return true
		}
	}
	return false
}
