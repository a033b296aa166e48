package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newMoodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood <habit> <capsule> <mood>",
		Short: "Tag one of today's capsules with a mood",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("usage: mood <habit> <capsule> <mood>")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("capsule must be an index (0-based)")
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

			idx, _ := strconv.Atoi(args[1])
			if err := svc.TagCapsuleMood(ctx, args[0], idx, args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("Capsule %d of %s tagged %q.", idx, args[0], args[2])))
			return nil
		},
	}

	return cmd
}
