package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ecoquest/internal/engine"
	"ecoquest/internal/ui"
)

func newDoCmd() *cobra.Command {
	var title string
	var points int
	var category string
	var noPush bool

	cmd := &cobra.Command{
		Use:   "do [mission-id]",
		Short: "Complete a mission",
		Long: `Complete a catalog mission by id, or record your own with --title and --points.

The completion is pushed to the remote backup when one is configured.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one mission id")
			}
			if len(args) == 0 && strings.TrimSpace(title) == "" {
				return errors.New("mission id or --title is required")
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

			var m engine.Mission
			if len(args) == 1 {
				m, err = engine.FindMission(args[0])
				if err != nil {
					return err
				}
			} else {
				title = strings.TrimSpace(title)
				m = engine.Mission{
					ID:     "custom-" + strings.ToLower(strings.ReplaceAll(title, " ", "-")),
					Title:  title,
					Points: points,
					Type:   engine.ParseCategory(category),
				}
			}

			res, err := a.svc.CompleteMission(ctx, m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), m.Title, ui.Gold.Render(fmt.Sprintf("+%dP", m.Points)))
			fmt.Fprintln(out, ui.LabelValue("Points", fmt.Sprintf("%d (lifetime %d)", res.User.Points, res.User.LifetimePoints)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, res.Streak)))
			if res.StageUp {
				fmt.Fprintf(out, "%s %s → %s\n", ui.BadgeStageUp, ui.StageText(string(res.StageBefore)), ui.StageText(string(res.StageAfter)))
			}
			if !noPush {
				fmt.Fprintln(out, ui.Muted.Render(a.push(ctx, res)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Title of a custom mission")
	cmd.Flags().IntVar(&points, "points", 30, "Points for a custom mission")
	cmd.Flags().StringVarP(&category, "type", "c", "", "Category (energy|transport|waste|food|nature)")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Skip the remote backup")
	return cmd
}
