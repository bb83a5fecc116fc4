package geoip

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaxMind answers from a local GeoIP2/GeoLite2 database. City databases give
// coordinates; Country databases give only the country.
type MaxMind struct {
	reader *geoip2.Reader
	city   bool
}

// OpenMaxMind opens an .mmdb file.
func OpenMaxMind(path string) (*MaxMind, error) {
	if strings.TrimSpace(path) == "" {
		return nil, eris.New("geoip: maxmind database path is empty")
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geoip: open %s", path)
	}
	meta := reader.Metadata()
	zap.L().Debug("geoip: maxmind database opened", metadataFields(path, meta)...)
	return &MaxMind{reader: reader, city: strings.Contains(meta.DatabaseType, "City")}, nil
}

func metadataFields(path string, meta maxminddb.Metadata) []zap.Field {
	return []zap.Field{
		zap.String("path", path),
		zap.String("type", meta.DatabaseType),
		zap.Time("built", time.Unix(int64(meta.BuildEpoch), 0).UTC()),
		zap.Uint("ip_version", meta.IPVersion),
	}
}

// Locate looks ip up in the database. A local database cannot discover the
// caller's address, so ip is required.
func (m *MaxMind) Locate(ctx context.Context, ip string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, eris.Wrap(err, "geoip: maxmind")
	}
	addr, err := parseIP(ip)
	if err != nil {
		return Result{}, err
	}
	if !addr.IsValid() {
		return Result{}, eris.Wrap(ErrIPRequired, "geoip: maxmind")
	}
	netIP := net.IP(addr.AsSlice())

	if !m.city {
		rec, err := m.reader.Country(netIP)
		if err != nil {
			return Result{}, eris.Wrapf(err, "geoip: maxmind lookup %s", ip)
		}
		return countryResult(addr.String(), rec)
	}

	rec, err := m.reader.City(netIP)
	if err != nil {
		return Result{}, eris.Wrapf(err, "geoip: maxmind lookup %s", ip)
	}
	return cityResult(addr.String(), rec)
}

// countryResult carries no coordinates: Country databases have none.
func countryResult(ip string, rec *geoip2.Country) (Result, error) {
	if rec.Country.IsoCode == "" {
		return Result{}, eris.Wrapf(ErrLookupFailed, "geoip: maxmind has no record for %s", ip)
	}
	return Result{
		IP:          ip,
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.IsoCode,
	}, nil
}

// cityResult reports coordinates only when the record has a location; a
// City record resolved to country level leaves them at 0,0.
func cityResult(ip string, rec *geoip2.City) (Result, error) {
	if rec.Country.IsoCode == "" {
		return Result{}, eris.Wrapf(ErrLookupFailed, "geoip: maxmind has no record for %s", ip)
	}
	lat, lon := rec.Location.Latitude, rec.Location.Longitude
	return Result{
		IP:          ip,
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.IsoCode,
		Lat:         lat,
		Lon:         lon,
		HasCoords:   lat != 0 || lon != 0,
	}, nil
}

// Close closes the database.
func (m *MaxMind) Close() error {
	return m.reader.Close()
}
