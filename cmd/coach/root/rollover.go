package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newRolloverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Apply the day boundary (carryover, goal growth, streak)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.DayRollover(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Applied {
				fmt.Fprintln(out, ui.Muted.Render("Already rolled over for "+res.Day+"."))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconCoach, "Rolled over to "+res.Day))
			for _, hr := range res.Habits {
				line := fmt.Sprintf("- %s goal %v", ui.Key.Render(hr.HabitKey), hr.NewGoal)
				if hr.Carryover > 0 {
					line += ui.Warn.Render(fmt.Sprintf(" +%v carryover", hr.Carryover))
				}
				if hr.Promoted {
					line += " " + ui.Good.Render("promoted to growth")
				}
				if hr.GoalIncreased {
					line += " " + ui.Good.Render("goal increased")
				}
				if hr.PlateauReset {
					line += " " + ui.Bad.Render("window reset")
				}
				fmt.Fprintln(out, line)
			}
			switch {
			case res.StreakAfter > res.StreakBefore:
				fmt.Fprintf(out, "%s Streak: %d days\n", ui.IconFire, res.StreakAfter)
			case res.StreakAfter < res.StreakBefore:
				fmt.Fprintln(out, ui.Bad.Render("Streak broken."))
			}
			return nil
		},
	}

	return cmd
}
