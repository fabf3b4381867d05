package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ecoquest/internal/engine"
	"ecoquest/internal/ui"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show completed missions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			logs := a.svc.Logs(ctx)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, fmt.Sprintf("Mission log (%d)", len(logs))))
			if len(logs) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			shown := 0
			for i := len(logs) - 1; i >= 0; i-- {
				if limit > 0 && shown >= limit {
					break
				}
				l := logs[i]
				day, ok := engine.DayKey(l.CompletedAt, time.Local)
				if !ok {
					day = "????-??-??"
				}
				fmt.Fprintf(out, "%s %s %s %s\n", ui.Muted.Render(day), ui.CategoryIcon(l.Type), l.Title, ui.Gold.Render(fmt.Sprintf("+%dP", l.Points)))
				shown++
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Max entries (0 = all)")
	return cmd
}
