package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whichcountry/internal/config"
	"whichcountry/internal/country"
	"whichcountry/internal/dataset"
	"whichcountry/internal/geoip"
	"whichcountry/internal/render"
	"whichcountry/internal/tui"
)

// app carries the loaded configuration and the flag values of one command
// tree.
type app struct {
	cfg *config.Config

	configFile string
	width      int
	height     int
	dataPath   string
	noColor    bool

	country string
	lat     float64
	lon     float64
	ip      string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "whichcountry",
		Short: "Show which country you are in on an ASCII map",
		Long: "Resolves a location (your public IP, a coordinate pair or a country code) " +
			"to a country and draws a zoomed ASCII map centred on it.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			_ = zap.L().Sync()
		},
		RunE: a.runRoot,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./whichcountry.yaml or ~/.config/whichcountry/whichcountry.yaml)")
	pf.IntVarP(&a.width, "width", "W", 80, "map width in characters")
	pf.IntVarP(&a.height, "height", "H", 24, "map height in characters")
	pf.StringVar(&a.dataPath, "data", "", "boundary file (.geojson, .json, .shp, .kml, .csv); embedded dataset when empty")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured output")

	f := cmd.Flags()
	f.StringVarP(&a.country, "country", "c", "", "ISO 3166-1 alpha-2 code to show instead of looking up your location")
	f.Float64Var(&a.lat, "lat", 0, "latitude to look up (requires --lon)")
	f.Float64Var(&a.lon, "lon", 0, "longitude to look up (requires --lat)")
	f.StringVar(&a.ip, "ip", "", "IP address to geolocate instead of your own")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("country", "lat")
	cmd.MarkFlagsMutuallyExclusive("country", "ip")
	cmd.MarkFlagsMutuallyExclusive("lat", "ip")

	cmd.AddCommand(
		newCountriesCmd(a),
		newLocateCmd(a),
		newIPsCmd(a),
	)
	return cmd
}

// setup loads configuration, applies explicit flags on top and starts the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	c, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		c.Map.Width = a.width
	}
	if flags.Changed("height") {
		c.Map.Height = a.height
	}
	if flags.Changed("data") {
		c.Data.Path = a.dataPath
	}
	if a.noColor {
		c.Map.Color = tui.ColorNever
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := config.InitLogger(c.Log); err != nil {
		return err
	}
	a.cfg = c
	return nil
}

func (a *app) openDataset(ctx context.Context) (*country.Dataset, error) {
	return dataset.Open(ctx, a.cfg.Data.Path, a.cfg.Data.Workers)
}

func (a *app) locator() (geoip.Locator, error) {
	g := a.cfg.GeoIP
	return geoip.New(geoip.Options{
		Provider:      g.Provider,
		URL:           g.URL,
		Timeout:       g.Timeout(),
		MMDBPath:      g.MMDBPath,
		RatePerMinute: g.RatePerMinute,
	})
}

// location is a resolved country plus the coordinates shown under the map.
type location struct {
	idx       int
	name      string
	lat       float64
	lon       float64
	hasCoords bool
}

func (a *app) runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ds, err := a.openDataset(ctx)
	if err != nil {
		return err
	}

	var loc location
	switch {
	case a.country != "":
		loc, err = byCode(ds, a.country)
	case cmd.Flags().Changed("lat"):
		loc, err = byCoordinates(ds, a.lat, a.lon)
	default:
		loc, err = a.byIP(cmd, ds)
	}
	if err != nil {
		return err
	}

	r := render.New(render.Options{Width: a.cfg.Map.Width, Height: a.cfg.Map.Height}).WithDataset(ds)
	m, err := r.RenderDataset(loc.idx)
	if err != nil {
		return err
	}
	c := ds.At(loc.idx)
	opts := r.Options()
	out := cmd.OutOrStdout()
	return tui.WriteReport(out, tui.Report{
		Name:      loc.name,
		Code:      c.Code,
		Lat:       loc.lat,
		Lon:       loc.lon,
		HasCoords: loc.hasCoords,
		Map:       m,
	}, tui.NewStyles(out, a.cfg.Map.Color), opts.TargetGlyph, opts.NeighborGlyph)
}

// byCode shows a country by ISO code; coordinates are its label point.
func byCode(ds *country.Dataset, code string) (location, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	idx, ok := ds.Lookup(code)
	if !ok {
		return location{}, eris.Errorf("unknown country code: %s", code)
	}
	c := ds.At(idx)
	return location{idx: idx, name: c.Name, lat: c.Label[1], lon: c.Label[0], hasCoords: true}, nil
}

func byCoordinates(ds *country.Dataset, lat, lon float64) (location, error) {
	idx, ok := ds.Locate(lon, lat)
	if !ok {
		return location{}, eris.Errorf("No country found at %v, %v (ocean?)", lat, lon)
	}
	return location{idx: idx, name: ds.At(idx).Name, lat: lat, lon: lon, hasCoords: true}, nil
}

// byIP geolocates --ip (or the caller's address) and maps the answer onto the
// dataset: by code first, then by the reported coordinates.
func (a *app) byIP(cmd *cobra.Command, ds *country.Dataset) (location, error) {
	loc, err := a.locator()
	if err != nil {
		return location{}, err
	}
	defer loc.Close()

	errOut := cmd.ErrOrStderr()
	res, err := tui.RunLookup(cmd.Context(), errOut, tui.NewStyles(errOut, a.cfg.Map.Color), func(ctx context.Context) (geoip.Result, error) {
		return loc.Locate(ctx, a.ip)
	})
	if err != nil {
		return location{}, err
	}
	zap.L().Debug("geoip: resolved",
		zap.String("ip", res.IP),
		zap.String("code", res.CountryCode),
		zap.Float64("lat", res.Lat),
		zap.Float64("lon", res.Lon),
		zap.Bool("has_coords", res.HasCoords),
	)
	return fromGeoIP(ds, res)
}

// fromGeoIP maps a provider answer onto the dataset. Answers without
// coordinates can only match by code.
func fromGeoIP(ds *country.Dataset, res geoip.Result) (location, error) {
	idx, ok := ds.Lookup(res.CountryCode)
	if !ok {
		if res.HasCoords {
			idx, ok = ds.Locate(res.Lon, res.Lat)
		}
		if !ok {
			return location{}, eris.Errorf("unknown country code: %s", res.CountryCode)
		}
		zap.L().Info("geoip: country not in dataset, matched by coordinates",
			zap.String("code", res.CountryCode),
			zap.String("matched", ds.At(idx).Code),
		)
	}
	name := res.Country
	if name == "" || ds.At(idx).Code != res.CountryCode {
		name = ds.At(idx).Name
	}
	return location{idx: idx, name: name, lat: res.Lat, lon: res.Lon, hasCoords: res.HasCoords}, nil
}
