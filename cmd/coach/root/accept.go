package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept [template]",
		Short: "Accept a starter habit template (no argument lists them)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			if len(args) == 0 {
				list, err := svc.ListTemplates(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Starter templates"))
				for _, ts := range list {
					state := ui.Good.Render("available")
					switch {
					case ts.Accepted:
						state = ui.Muted.Render("accepted")
					case !ts.Available:
						state = ui.Bad.Render("locked")
					}
					fmt.Fprintf(out, "- %s %s %s %s\n",
						ui.Key.Render(ts.Def.Code),
						ts.Def.Name,
						ui.Muted.Render(fmt.Sprintf("(%v %s, %s)", ts.Def.DailyGoal, ts.Def.Unit, ts.Def.Mode)),
						state,
					)
				}
				return nil
			}

			res, err := svc.AcceptTemplate(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconPlus, "Template accepted"))
			fmt.Fprintln(out, ui.LabelValue("Habit", res.HabitKey))
			fmt.Fprintln(out, ui.LabelValue("Capsules", fmt.Sprintf("%d x %v", res.Chunks.NumChunks, res.Chunks.ChunkValue)))
			return nil
		},
	}

	return cmd
}
