package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"growthcoach/internal/engine"
	"growthcoach/internal/ui"
)

func newLogCmd() *cobra.Command {
	var duration time.Duration
	var note string

	cmd := &cobra.Command{
		Use:   "log <habit> [amount]",
		Short: "Record progress on a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errors.New("usage: log <habit> [amount]")
			}
			if len(args) == 2 {
				if _, err := strconv.ParseFloat(args[1], 64); err != nil {
					return errors.New("amount must be a number")
				}
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

			in := engine.LogInput{HabitKey: args[0], Note: note}
			if len(args) == 2 {
				in.Amount, _ = strconv.ParseFloat(args[1], 64)
			}
			if duration > 0 {
				in.DurationSecs = int(duration.Seconds())
			}

			res, err := svc.LogCompletion(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDone, "Logged "+res.HabitKey))
			fmt.Fprintln(out, ui.LabelValue("Progress", fmt.Sprintf("%v / %v", res.ProgressToday, res.AdjustedGoal)))
			if res.CapsulesTotal > 1 {
				fmt.Fprintln(out, ui.LabelValue("Capsules", ui.Capsules(res.CapsulesFilled, res.CapsulesTotal)))
			}
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("+%d", res.XPAwarded)))
			if res.EnergySpent > 0 {
				fmt.Fprintln(out, ui.LabelValue("Energy", fmt.Sprintf("-%.1f", res.EnergySpent)))
			}
			if res.GoalMet {
				fmt.Fprintln(out, ui.Good.Render("Goal met for today."))
			}
			if res.PlateauCounted {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Consistency: %d qualifying days in this window.", res.CompletionsInPlateau)))
			}
			if res.LevelUp {
				fmt.Fprintf(out, "%s %s Level %d → %d\n", ui.IconTrophy, ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			fmt.Fprintln(out, ui.Dim.Render("event "+res.EventID))
			return nil
		},
	}

	cmd.Flags().DurationVarP(&duration, "for", "f", 0, "Session duration for timer habits (e.g. 25m)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Optional note stored with the event")

	return cmd
}
