package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ecoquest/internal/engine"
	"ecoquest/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List decorations for your forest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			u := a.svc.User(ctx)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconShop, "Shop"))
			fmt.Fprintln(out, ui.LabelValue("Balance", ui.Points(u.Points)))
			fmt.Fprintln(out, "")
			for _, it := range engine.ShopCatalog() {
				state := ""
				switch {
				case u.HasItem(it.ID):
					state = ui.Good.Render("owned")
				case engine.CanBuyItem(engine.Stage(u.Stage), it.ID) != nil:
					state = ui.Muted.Render(fmt.Sprintf("🔒 unlocks at %s", it.Stage))
				case u.Points < it.Cost:
					state = ui.Warn.Render("need more points")
				}
				fmt.Fprintf(out, "%s %-14s %-12s %s %s\n", it.Icon, ui.Key.Render(it.ID), it.Name, ui.Gold.Render(fmt.Sprintf("%dP", it.Cost)), state)
			}
			return nil
		},
	}

	return cmd
}

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy a shop item",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item id is required")
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

			u, item, err := a.svc.BuyItem(ctx, args[0])
			if err != nil {
				if errors.Is(err, engine.ErrInsufficientPoints) {
					return fmt.Errorf("%s costs %dP, you have %dP", item.Name, item.Cost, a.svc.User(ctx).Points)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconSparkle+" Bought"), item.Icon+" "+item.Name, ui.Muted.Render(fmt.Sprintf("(-%dP, %dP left)", item.Cost, u.Points)))
			return nil
		},
	}

	return cmd
}
