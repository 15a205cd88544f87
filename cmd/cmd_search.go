// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/geocode"
	"github.com/hemoloc/hemoloc/report"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/hemoloc/hemoloc/utils/httputils"
	"github.com/spf13/cobra"
)

// originOptions select the search origin, by coordinate or by address.
type originOptions struct {
	Lat     float64
	Lon     float64
	Address string
}

func (o *originOptions) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.Lat, "lat", 0, "latitude of the search origin")
	cmd.Flags().Float64Var(&o.Lon, "lon", 0, "longitude of the search origin")
	cmd.Flags().StringVar(&o.Address, "address", "", "address of the search origin, geocoded with Google Maps")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("lat", "address")
}

func (o *originOptions) given(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("lat") || o.Address != ""
}

// resolve returns the origin point, geocoding the address when one was given.
func (o *originOptions) resolve(ctx context.Context) (spatial.Point, error) {
	if o.Address == "" {
		return spatial.Point{Lat: o.Lat, Lng: o.Lon}, nil
	}

	apiKey, err := geocode.ResolveAPIKey(ctx)
	if err != nil {
		return spatial.Point{}, err
	}

	g := geocode.NewGoogleMaps(geocode.GoogleMapsOptions{
		APIKey: apiKey,
		HTTPClient: httputils.NewClient(httputils.ClientOptions{
			UserAgent: userAgent(),
			Trace:     rootOptions.HTTPTrace,
		}),
	})

	res, err := g.Geocode(ctx, o.Address)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("geocoding %q: %w", o.Address, err)
	}

	log.Printf("📍 %s (%s confidence) -> %v", res.DisplayName, res.Confidence, res.Point)

	return res.Point, nil
}

type searchCmdOptions struct {
	originOptions
	JSON bool
	XLSX string
}

var searchOptions = &searchCmdOptions{}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Busca pontos de doação perto de uma coordenada ou endereço",
	Example: `  hemoloc search --lat -23.5505 --lon -46.6333
  hemoloc search --address "Av. Paulista, 1000, São Paulo" --json
  hemoloc search --lat -22.9068 --lon -43.1729 --xlsx rio.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !searchOptions.given(cmd) {
			return errors.New("either --lat/--lon or --address is required")
		}

		origin, err := searchOptions.resolve(cmd.Context())
		if err != nil {
			return err
		}

		facilities, err := newSearcher().Search(cmd.Context(), origin)
		if err != nil {
			return err
		}

		if searchOptions.XLSX != "" {
			if err := writeXLSXFile(searchOptions.XLSX, origin, facilities); err != nil {
				return err
			}

			log.Printf("✅ Wrote %d facilities to %s", len(facilities), searchOptions.XLSX)
		}

		if searchOptions.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(facilities)
		}

		printTable(os.Stdout, facilities)

		return nil
	},
}

func writeXLSXFile(path string, origin spatial.Point, facilities []facility.Facility) (err error) {
	f, err := os.Create(path) // #nosec G304 - path is provided by the user
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return report.WriteXLSX(f, origin, facilities)
}

// pad right-pads s to width runes, truncating with an ellipsis.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)

		return string(runes[:width-1]) + "…"
	}

	return s + strings.Repeat(" ", width-n)
}

func printTable(w io.Writer, facilities []facility.Facility) {
	if len(facilities) == 0 {
		fmt.Fprintln(w, "Nenhum ponto de doação encontrado num raio de 15 km.")

		return
	}

	const nameW, typeW, addrW = 40, 15, 50

	line := func(l, m, r string) {
		fmt.Fprintln(w, l+strings.Join([]string{
			strings.Repeat("─", 9),
			strings.Repeat("─", nameW+2),
			strings.Repeat("─", typeW+2),
			strings.Repeat("─", addrW+2),
		}, m)+r)
	}

	line("╭", "┬", "╮")
	fmt.Fprintf(w, "│ %7s │ %s │ %s │ %s │\n", "km", pad("Nome", nameW), pad("Tipo", typeW), pad("Endereço", addrW))
	line("├", "┼", "┤")

	for _, f := range facilities {
		fmt.Fprintf(w, "│ %7.1f │ %s │ %s │ %s │\n",
			f.DistanceKm, pad(f.Name, nameW), pad(f.Type.Label(), typeW), pad(f.Address, addrW))
	}

	line("╰", "┴", "╯")
}

func init() {
	searchOptions.register(searchCmd)
	searchCmd.Flags().BoolVar(&searchOptions.JSON, "json", false, "print results as JSON")
	searchCmd.Flags().StringVar(&searchOptions.XLSX, "xlsx", "", "also write results to this .xlsx file")
	rootCmd.AddCommand(searchCmd)
}
