package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecoquest/internal/engine"
	"ecoquest/internal/ui"
)

type locationFlags struct {
	place string
	lat   float64
	lon   float64
	mode  string
}

func (f *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.place, "place", "p", "", "Saved place name")
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "Longitude")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "indoor|outdoor")
}

func (f *locationFlags) coords(cmd *cobra.Command) (lat, lon *float64) {
	if cmd.Flags().Changed("lat") {
		lat = &f.lat
	}
	if cmd.Flags().Changed("lon") {
		lon = &f.lon
	}
	return lat, lon
}

func newMissionsCmd() *cobra.Command {
	var loc locationFlags
	var limit int

	cmd := &cobra.Command{
		Use:     "missions",
		Aliases: []string{"m"},
		Short:   "Suggest missions for the current weather and place",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			latP, lonP := loc.coords(cmd)
			lat, lon, mode, err := a.location(ctx, loc.place, latP, lonP, loc.mode)
			if err != nil {
				return err
			}
			wx, where, missions, err := a.svc.SuggestMissions(ctx, engine.CatalogGenerator{Limit: limit}, a.geo, a.weather, lat, lon, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLeaf, "Today's missions"))
			fmt.Fprintf(out, "%s %.0f°C %s  %s %s %s\n",
				ui.WeatherIcon(string(wx.Condition)), wx.TemperatureC, wx.Condition,
				ui.IconPin, where.Address, ui.Muted.Render("("+string(mode)+")"))
			fmt.Fprintln(out, "")
			if len(missions) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing left for today. Nice work."))
				return nil
			}
			for _, m := range missions {
				fmt.Fprintf(out, "%s %s %s %s\n", ui.CategoryIcon(string(m.Type)), ui.Key.Render(m.ID), m.Title, ui.Gold.Render(fmt.Sprintf("+%dP", m.Points)))
				fmt.Fprintf(out, "   %s\n", ui.Muted.Render(fmt.Sprintf("%s (~%d min)", m.Description, m.EstimatedTimeSeconds/60)))
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.Muted.Render("Complete one with: eq do <id>"))
			return nil
		},
	}

	loc.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "Number of missions")
	return cmd
}
