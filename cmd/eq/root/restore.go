package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ecoquest/internal/ui"
)

func newRestoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore [name]",
		Short: "Replace local progress with the remote backup",
		Long: `Rebuild local progress from the remote backup sheet.

This will:
- Keep only the rows whose user matches the name exactly (default: your current name)
- Replace the whole mission log with those rows
- Overwrite points and lifetime points with their total

Nothing is merged. Inventory and saved places are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("restore overwrites local progress; re-run with --yes")
			}
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			name := a.svc.User(ctx).Name
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				name = args[0]
			}

			res, err := a.svc.Restore(ctx, a.backup, name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Found {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+res.Message))
				return nil
			}
			fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" "+res.Message))
			fmt.Fprintln(out, ui.LabelValue("Stage", ui.StageText(res.User.Stage)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm overwriting local progress")
	return cmd
}
