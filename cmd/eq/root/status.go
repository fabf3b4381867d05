package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecoquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show points, stage, streak and badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := a.svc.Summary(ctx)
			u := s.User
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.StageIcon(u.Stage), u.Name))
			fmt.Fprintln(out, ui.LabelValue("Stage", ui.StageText(u.Stage)))
			fmt.Fprintln(out, ui.LabelValue("Points", fmt.Sprintf("%s %s", ui.Points(u.Points), ui.Muted.Render(fmt.Sprintf("(lifetime %d)", u.LifetimePoints)))))
			if s.NextStage != "" {
				fmt.Fprintln(out, ui.LabelValue("Next", fmt.Sprintf("%s %s at %d, %d to go", ui.StageIcon(string(s.NextStage)), s.NextStage, s.NextStageAt, s.ToNextStage)))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Next", ui.Good.Render("fully grown")))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, s.Streak)))
			fmt.Fprintln(out, ui.LabelValue("Missions", u.TotalMissionsCompleted))
			if len(u.Inventory) > 0 {
				fmt.Fprintln(out, ui.LabelValue("Items", fmt.Sprint(u.Inventory)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Badges (%d/%d)", ui.IconTrophy, s.BadgesEarned, len(s.Achievements))))
			for _, b := range s.Achievements {
				if b.Earned {
					fmt.Fprintf(out, "- %s %s %s\n", b.Icon, ui.Good.Render(b.Name), ui.Muted.Render(b.Description))
				} else {
					fmt.Fprintf(out, "- 🔒 %s %s\n", ui.Muted.Render(b.Name), ui.Muted.Render(b.Description))
				}
			}
			return nil
		},
	}

	return cmd
}
