package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"whichcountry/internal/country"
	"whichcountry/internal/tui"
)

func newCountriesCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries in the dataset",
		Long:  "Prints the code, name, polygon count and label point of every dataset entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.openDataset(cmd.Context())
			if err != nil {
				return err
			}
			var rows [][]string
			for _, c := range filterCountries(ds.Countries(), search) {
				rows = append(rows, []string{
					c.Code,
					c.Name,
					strconv.Itoa(len(c.Polygons)),
					tui.FormatCoordinates(c.Label[1], c.Label[0]),
				})
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				_, err := fmt.Fprintf(out, "No countries match %q\n", search)
				return err
			}
			st := tui.NewStyles(out, a.cfg.Map.Color)
			_, err = fmt.Fprintln(out, tui.Table(st, []string{"CODE", "NAME", "POLYGONS", "LABEL"}, rows))
			return err
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only list countries whose code or name contains this text (case-insensitive)")
	return cmd
}

// filterCountries keeps countries whose code or name contains q under Unicode
// case folding. An empty q keeps everything.
func filterCountries(all []country.Country, q string) []country.Country {
	q = strings.TrimSpace(q)
	if q == "" {
		return all
	}
	fold := cases.Fold()
	needle := fold.String(q)
	var out []country.Country
	for _, c := range all {
		if strings.Contains(fold.String(c.Code), needle) || strings.Contains(fold.String(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}
