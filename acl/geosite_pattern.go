package acl

import "strings"

// GeoSitePattern is a parsed `name[@attr[=value]]*` geosite reference.
// A bare attr means "must be present"; attr=value means "must be
// present and equal" (value is compared as an exact string against the
// entry's attribute value; DAT boolean attributes read as "true" and
// integer attributes as their decimal form).
type GeoSitePattern struct {
	Name  string
	Attrs map[string]*string
}

// ParseGeoSitePattern parses a pattern of the form
// "name@attr1@attr2=value".
func ParseGeoSitePattern(pattern string) GeoSitePattern {
	parts := strings.Split(pattern, "@")
	result := GeoSitePattern{Name: strings.ToLower(parts[0]), Attrs: make(map[string]*string)}
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		if key, value, ok := strings.Cut(part, "="); ok {
			v := value
			result.Attrs[strings.ToLower(key)] = &v
		} else {
			result.Attrs[strings.ToLower(part)] = nil
		}
	}
	return result
}
