package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecoquest/internal/ui"
)

const Version = "0.1.0"

type globalFlags struct {
	configFile string
	dbPath     string
	ephemeral  bool
	verbose    bool
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "eq",
		Short:         "EcoQuest: everyday eco missions that grow your tree",
		Long:          "EcoQuest suggests small eco-friendly missions from the weather and your location, rewards them with points, and grows a tree from sprout to full size.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Config file (default: ./config.yaml or ~/.ecoquest/config.yaml)")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path (default: ~/.ecoquest.db)")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "Keep data in memory only")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(
		newStatusCmd(),
		newMissionsCmd(),
		newDoCmd(),
		newLogCmd(),
		newShopCmd(),
		newBuyCmd(),
		newPlacesCmd(),
		newRestoreCmd(),
		newLeaderboardCmd(),
		newRenameCmd(),
		newResetCmd(),
		newServeCmd(),
		newBoardCmd(),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		return 1
	}
	return 0
}
