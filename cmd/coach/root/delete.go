package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <habit>",
		Short: "Soft-delete a habit (its log history stays)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit key is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteHabit(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("Deleted %q. Completion history is kept.", args[0])))
			return nil
		},
	}

	return cmd
}
