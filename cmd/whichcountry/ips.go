package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whichcountry/internal/country"
	"whichcountry/internal/geoip"
	"whichcountry/internal/tui"
)

func newIPsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ips <ip>...",
		Short: "Geolocate several IP addresses",
		Long: "Looks up each address with the configured provider (ip-api requests are rate limited " +
			"by geoip.rate_per_minute) and prints the country it resolves to in the dataset.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ds, err := a.openDataset(ctx)
			if err != nil {
				return err
			}
			loc, err := a.locator()
			if err != nil {
				return err
			}
			defer loc.Close()

			rows := make([][]string, 0, len(args))
			for _, ip := range args {
				res, err := loc.Locate(ctx, ip)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					zap.L().Warn("ips: lookup failed", zap.String("ip", ip), zap.Error(err))
					rows = append(rows, []string{ip, "-", "-", "-", err.Error()})
					continue
				}
				rows = append(rows, ipRow(ds, ip, res))
			}
			out := cmd.OutOrStdout()
			st := tui.NewStyles(out, a.cfg.Map.Color)
			_, err = fmt.Fprintln(out, tui.Table(st, []string{"IP", "CODE", "COUNTRY", "COORDINATES", "DATASET"}, rows))
			return err
		},
	}
}

// ipRow reports the provider's answer next to the dataset entry it maps to.
func ipRow(ds *country.Dataset, ip string, res geoip.Result) []string {
	match, coords := "-", "-"
	if res.HasCoords {
		coords = tui.FormatCoordinates(res.Lat, res.Lon)
	}
	if idx, ok := ds.Lookup(res.CountryCode); ok {
		match = ds.At(idx).Name
	} else if res.HasCoords {
		if idx, ok := ds.Locate(res.Lon, res.Lat); ok {
			match = ds.At(idx).Name + " (by coordinates)"
		}
	}
	return []string{ip, res.CountryCode, res.Country, coords, match}
}
