package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"growthcoach/internal/engine"
	"growthcoach/internal/ui"
)

func newUnlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlog <event-id|habit>",
		Short: "Reverse a completion event",
		Long:  "Reverse a completion by its event ID, or pass a habit key to reverse that habit's most recent log from today.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("event id or habit key is required")
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

			eventID := args[0]
			// A habit key resolves to its latest event from today.
			if h, err := svc.HabitRepo().Get(ctx, args[0]); err != nil {
				return err
			} else if h != nil {
				p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
				if err != nil {
					return err
				}
				since := engine.NewTimeContext(time.Now().UTC(), p.Timezone).StartOfDay()
				latest, err := svc.CompletionRepo().LatestForHabitSince(ctx, h.Key, since)
				if err != nil {
					return err
				}
				if latest == nil {
					return fmt.Errorf("no completions logged today for %q", h.Key)
				}
				eventID = latest.ID
			}

			res, err := svc.UnlogCompletion(ctx, eventID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconUndo, "Reversed "+res.HabitKey))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("-%d", res.XPDeducted)))
			if res.EnergyRefunded > 0 {
				fmt.Fprintln(out, ui.LabelValue("Energy", fmt.Sprintf("+%.1f", res.EnergyRefunded)))
			}
			if res.PlateauUncounted {
				fmt.Fprintln(out, ui.Muted.Render("Today no longer counts toward the plateau window."))
			}
			if res.LevelDown {
				fmt.Fprintf(out, "%s Level %d → %d\n", ui.IconWarn, res.LevelBefore, res.LevelAfter)
			}
			return nil
		},
	}

	return cmd
}
