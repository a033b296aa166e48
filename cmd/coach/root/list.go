package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List today's habits with progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			overview, err := svc.Today(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconCoach, "Today "+overview.Day))
			if overview.TotalParts > 0 {
				fmt.Fprintln(out, ui.LabelValue("Capsules", fmt.Sprintf("%d/%d", overview.CompletedParts, overview.TotalParts)))
			}
			fmt.Fprintln(out, "")

			if len(overview.Habits) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No habits yet. Try `coach add` or `coach accept`."))
				return nil
			}

			for _, ht := range overview.Habits {
				if !ht.Scheduled && !all {
					continue
				}
				mark := " "
				switch {
				case ht.Locked:
					mark = ui.IconLock
				case ht.Habit.IsFrozen:
					mark = ui.IconFrozen
				case ht.GoalMet:
					mark = ui.IconDone
				case !ht.Scheduled:
					mark = "·"
				}
				caps := ""
				if ht.Habit.EnableChunks {
					caps = "  " + ui.Capsules(ht.CapsulesFilled, ht.Plan.NumChunks)
				}
				carry := ""
				if ht.CarryoverLeft > 0 {
					carry = " " + ui.Warn.Render(fmt.Sprintf("(+%v carried)", ht.CarryoverLeft))
				}
				fmt.Fprintf(out, "%s %s %s  %v/%v %s%s %s%s\n",
					mark,
					ui.Key.Render(ht.Habit.Key),
					ht.Habit.Name,
					ht.Progress, ht.AdjustedGoal, ht.Habit.Unit,
					carry,
					ui.ModeText(ht.Habit.GoalMode),
					caps,
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include habits not scheduled today")

	return cmd
}
