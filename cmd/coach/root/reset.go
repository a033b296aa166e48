package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newResetCmd() *cobra.Command {
	var xpOnly bool
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress (--xp) or wipe everything (--all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if xpOnly == all {
				return errors.New("pick exactly one of --xp / --all")
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if all {
				if err := svc.ResetAll(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Warn.Render("All habits, capsules and history removed. Fresh start."))
				return nil
			}

			if err := svc.ResetExperience(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Muted.Render("XP, level and streak reset. Habits are untouched."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&xpOnly, "xp", false, "Reset XP, level and streak only")
	cmd.Flags().BoolVar(&all, "all", false, "Delete every habit and completion as well")

	return cmd
}
