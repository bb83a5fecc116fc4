package geoip

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultIPAPIURL = "http://ip-api.com/json/"
	ipAPIFields     = "status,message,country,countryCode,lat,lon,query"
	defaultTimeout  = 5 * time.Second
	// ip-api's free endpoint allows 45 requests a minute per client.
	defaultIPAPIPerMinute = 45
	maxResponseBytes      = 1 << 20
)

// IPAPIOption configures an IPAPI client.
type IPAPIOption func(*IPAPI)

// WithBaseURL points the client at another ip-api compatible endpoint.
func WithBaseURL(u string) IPAPIOption {
	return func(c *IPAPI) { c.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client. The client is used as
// given; WithTimeout does not touch it.
func WithHTTPClient(hc *http.Client) IPAPIOption {
	return func(c *IPAPI) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) IPAPIOption {
	return func(c *IPAPI) { c.timeout = d }
}

// WithRatePerMinute caps outgoing requests. n <= 0 disables the limit.
func WithRatePerMinute(n int) IPAPIOption {
	return func(c *IPAPI) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// IPAPI queries the ip-api.com JSON endpoint.
type IPAPI struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Query       string  `json:"query"`
}

// NewIPAPI returns a client with a 5 second timeout and the free tier's rate limit.
func NewIPAPI(opts ...IPAPIOption) *IPAPI {
	c := &IPAPI{
		baseURL: DefaultIPAPIURL,
		timeout: defaultTimeout,
		limiter: rate.NewLimiter(rate.Every(time.Minute/defaultIPAPIPerMinute), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Locate resolves ip, or the caller's public address when ip is empty.
func (c *IPAPI) Locate(ctx context.Context, ip string) (Result, error) {
	addr, err := parseIP(ip)
	if err != nil {
		return Result{}, err
	}
	endpoint, err := c.endpoint(addr.String(), addr.IsValid())
	if err != nil {
		return Result{}, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, eris.Wrap(err, "geoip: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, eris.Wrap(err, "geoip: build request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, eris.Wrap(err, "geoip: ip-api request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Result{}, eris.Wrapf(ErrLookupFailed, "geoip: ip-api returned HTTP %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return Result{}, eris.Wrap(err, "geoip: decode ip-api response")
	}
	zap.L().Debug("geoip: ip-api answered",
		zap.String("status", body.Status),
		zap.String("query", body.Query),
		zap.Duration("elapsed", time.Since(start)),
	)
	if body.Status != "success" {
		msg := body.Message
		if msg == "" {
			msg = "unknown error"
		}
		return Result{}, eris.Wrapf(ErrLookupFailed, "geoip: ip-api: %s", msg)
	}

	return Result{
		IP:          body.Query,
		Country:     body.Country,
		CountryCode: strings.ToUpper(body.CountryCode),
		Lat:         body.Lat,
		Lon:         body.Lon,
		HasCoords:   true,
	}, nil
}

// Close releases idle connections.
func (c *IPAPI) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *IPAPI) endpoint(ip string, hasIP bool) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", eris.Wrapf(err, "geoip: invalid base URL %q", c.baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	if hasIP {
		u.Path += ip
	}
	q := u.Query()
	q.Set("fields", ipAPIFields)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
