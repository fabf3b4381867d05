package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecoquest/internal/backup"
	"ecoquest/internal/ui"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank everyone in the backup sheet by points",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rows, err := a.backup.FetchRows(ctx)
			if err != nil {
				return err
			}
			me := a.svc.User(ctx).Name

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Leaderboard"))
			for _, e := range backup.Leaderboard(rows, limit) {
				name := e.User
				if name == me {
					name = ui.Good.Render(name + " (you)")
				}
				fmt.Fprintf(out, "%3d. %s %s %s\n", e.Rank, name, ui.Gold.Render(fmt.Sprintf("%dP", e.Points)), ui.Muted.Render(fmt.Sprintf("%d missions", e.Missions)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries (0 = all)")
	return cmd
}
