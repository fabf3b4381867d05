package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ecoquest/internal/engine"
	"ecoquest/internal/ui"
)

func newPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "List saved places",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPin, "Saved places"))
			for _, p := range a.svc.Places(ctx) {
				fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(p.Name), ui.Muted.Render("("+string(p.Type)+")"), p.Address)
			}
			return nil
		},
	}

	cmd.AddCommand(newPlacesAddCmd())
	return cmd
}

func newPlacesAddCmd() *cobra.Command {
	var placeType string
	var lat, lon float64
	var query string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save a place by coordinates or a search query",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			if query == "" && (!cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon")) {
				return errors.New("--query or both --lat and --lon are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if query != "" {
				foundLat, foundLon, found, err := a.geo.Search(ctx, query, a.cfg.DefaultLat, a.cfg.DefaultLon)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no results for %q", query)
				}
				lat, lon = foundLat, foundLon
			}

			place, err := a.svc.AddPlace(ctx, engine.PlaceInput{
				Name:    args[0],
				Type:    placeType,
				Address: a.geo.Reverse(ctx, lat, lon),
				Lat:     lat,
				Lon:     lon,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Saved"), place.Name, ui.Muted.Render(fmt.Sprintf("%s (%.4f, %.4f)", place.Address, place.Lat, place.Lon)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&placeType, "type", "t", "outdoor", "indoor|outdoor")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search for the place instead of giving coordinates")
	return cmd
}
