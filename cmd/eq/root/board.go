package root

import (
	"github.com/spf13/cobra"

	"ecoquest/internal/engine"
	"ecoquest/internal/tui"
)

func newBoardCmd() *cobra.Command {
	var loc locationFlags

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
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
			return tui.RunBoard(ctx, tui.Deps{
				Service:   a.svc,
				Backup:    a.backup,
				Generator: engine.CatalogGenerator{},
				Geo:       a.geo,
				Weather:   a.weather,
				Lat:       lat,
				Lon:       lon,
				Mode:      mode,
			}, cmd.OutOrStdout())
		},
	}

	loc.register(cmd)
	return cmd
}
