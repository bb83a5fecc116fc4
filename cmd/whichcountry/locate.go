package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whichcountry/internal/country"
	"whichcountry/internal/geom"
	"whichcountry/internal/tui"
)

func newLocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <points.csv>",
		Short: "Find the country of every point in a CSV file",
		Long: "Reads a CSV with latitude and longitude columns (lat/latitude/y, lon/lng/long/longitude/x) " +
			"and prints the country containing each point, or - when none does.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, extent, err := geom.LoadCSV(args[0])
			if err != nil {
				return err
			}
			zap.L().Debug("locate: points loaded",
				zap.Int("points", len(points)),
				zap.Float64s("extent", []float64{extent.MinLon, extent.MinLat, extent.MaxLon, extent.MaxLat}),
			)
			if outOfRange(extent) {
				zap.L().Warn("locate: points fall outside lon -180..180 / lat -90..90, are the columns swapped?",
					zap.String("file", args[0]))
			}
			ds, err := a.openDataset(cmd.Context())
			if err != nil {
				return err
			}
			rows, misses := locateRows(ds, points)
			zap.L().Debug("locate: done",
				zap.Int("points", len(points)),
				zap.Int("unmatched", misses),
			)
			out := cmd.OutOrStdout()
			st := tui.NewStyles(out, a.cfg.Map.Color)
			_, err = fmt.Fprintln(out, tui.Table(st, []string{"LINE", "LABEL", "COORDINATES", "CODE", "NAME"}, rows))
			return err
		},
	}
}

var lonLatRange = geom.BBox{MinLon: -180, MinLat: -90, MaxLon: 180, MaxLat: 90}

// outOfRange reports whether any point of the extent lies off the globe.
func outOfRange(extent geom.BBox) bool {
	return !lonLatRange.Contains(extent.MinLon, extent.MinLat) ||
		!lonLatRange.Contains(extent.MaxLon, extent.MaxLat)
}

func locateRows(ds *country.Dataset, points []geom.CSVPoint) (rows [][]string, misses int) {
	for _, p := range points {
		code, name := "-", "-"
		if idx, ok := ds.Locate(p.Lon, p.Lat); ok {
			c := ds.At(idx)
			code, name = c.Code, c.Name
		} else {
			misses++
		}
		label := p.Label
		if label == "" {
			label = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Line),
			label,
			tui.FormatCoordinates(p.Lat, p.Lon),
			code,
			name,
		})
	}
	return rows, misses
}
