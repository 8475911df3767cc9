package geo

import (
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"
)

// metaReader wraps a single shared maxminddb.Reader for the MetaDB
// family of formats, whose record shapes are not the fixed
// {country:{iso_code}} struct geoip2-golang expects: sing-geoip stores a
// bare string per record, and meta-geoip0 stores either a bare string or
// a list of strings (an untagged union), so decoding is done by hand via
// the lower-level maxminddb API.
type metaReader struct {
	db       *maxminddb.Reader
	database string // value of the database-type metadata, used to pick a decode path
}

func openMetaDB(path string) (*metaReader, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, newGeoIPError(FileError, "failed to open MetaDB %q: %v", path, err)
	}
	return &metaReader{db: db, database: db.Metadata.DatabaseType}, nil
}

func (r *metaReader) Lookup(ip net.IP) ([]string, error) {
	switch {
	case strings.Contains(r.database, "sing-geoip"):
		var code string
		if err := r.db.Lookup(ip, &code); err != nil {
			return nil, newGeoIPError(InvalidData, "MetaDB lookup failed: %v", err)
		}
		if code == "" {
			return nil, nil
		}
		return []string{strings.ToUpper(code)}, nil
	default:
		// meta-geoip0 and similar: the record is either a bare string or
		// a list of strings. maxminddb has no native "untagged union"
		// decode, so try both shapes.
		var asList []string
		if err := r.db.Lookup(ip, &asList); err == nil && len(asList) > 0 {
			codes := make([]string, len(asList))
			for i, c := range asList {
				codes[i] = strings.ToUpper(c)
			}
			return codes, nil
		}
		var asString string
		if err := r.db.Lookup(ip, &asString); err != nil {
			return nil, newGeoIPError(InvalidData, "MetaDB lookup failed: %v", err)
		}
		if asString == "" {
			return nil, nil
		}
		return []string{strings.ToUpper(asString)}, nil
	}
}

func (r *metaReader) Close() error {
	return r.db.Close()
}

// metaGeoIPData is the loader-level state for a MetaDB-backed GeoIP
// source.
type metaGeoIPData struct {
	reader *metaReader
}

func loadGeoIPMetaDB(path string) (*metaGeoIPData, error) {
	r, err := openMetaDB(path)
	if err != nil {
		return nil, err
	}
	return &metaGeoIPData{reader: r}, nil
}

func (d *metaGeoIPData) lookup(code string) (GeoIPSource, error) {
	return GeoIPSource{Reader: d.reader, Code: strings.ToUpper(code)}, nil
}
