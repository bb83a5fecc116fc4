// Package geoip resolves an IP address (or the caller's own public address)
// to a country and approximate coordinates.
package geoip

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Result is a geolocation answer.
type Result struct {
	IP          string
	Country     string
	CountryCode string
	Lat         float64
	Lon         float64
	// HasCoords is false when the provider only knows the country, as with
	// MaxMind Country databases; Lat and Lon are then zero.
	HasCoords bool
}

// Locator looks up an IP address. An empty ip asks for the caller's own
// public address, which not every provider supports.
type Locator interface {
	Locate(ctx context.Context, ip string) (Result, error)
	Close() error
}

var (
	ErrLookupFailed = eris.New("geolocation lookup failed")
	ErrIPRequired   = eris.New("an IP address is required")
)

// Provider names accepted by New.
const (
	ProviderIPAPI   = "ipapi"
	ProviderMaxMind = "maxmind"
)

// Options selects and configures a provider.
type Options struct {
	Provider      string
	URL           string
	Timeout       time.Duration
	MMDBPath      string
	RatePerMinute int
}

// New builds the Locator named by opts.Provider.
func New(opts Options) (Locator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderIPAPI:
		var ipOpts []IPAPIOption
		if opts.URL != "" {
			ipOpts = append(ipOpts, WithBaseURL(opts.URL))
		}
		if opts.Timeout > 0 {
			ipOpts = append(ipOpts, WithTimeout(opts.Timeout))
		}
		if opts.RatePerMinute > 0 {
			ipOpts = append(ipOpts, WithRatePerMinute(opts.RatePerMinute))
		}
		return NewIPAPI(ipOpts...), nil
	case ProviderMaxMind:
		m, err := OpenMaxMind(opts.MMDBPath)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, eris.Errorf("geoip: unknown provider %q", opts.Provider)
	}
}

// parseIP validates ip, allowing the empty string.
func parseIP(ip string) (netip.Addr, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return netip.Addr{}, nil
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return netip.Addr{}, eris.Wrapf(err, "geoip: invalid IP %q", ip)
	}
	return addr, nil
}
