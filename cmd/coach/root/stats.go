package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/engine"
	"growthcoach/internal/ui"
)

func newStatsCmd() *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:   "stats <habit>",
		Short: "Show a habit's analytics window",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit key is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := false
			for _, w := range engine.WindowWeeks {
				if weeks == w {
					ok = true
				}
			}
			if !ok {
				return fmt.Errorf("weeks must be one of %v", engine.WindowWeeks)
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := svc.HabitStats(ctx, args[0], weeks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChart, fmt.Sprintf("%s — last %d weeks", stats.HabitKey, stats.WindowWeeks)))
			fmt.Fprintln(out, ui.LabelValue("Completions", fmt.Sprintf("%d (%.1f total)", stats.TotalCompletions, stats.TotalQuantity)))
			fmt.Fprintln(out, ui.LabelValue("Scheduled days", fmt.Sprintf("%d completed / %d scheduled (%d missed)", stats.CompletedScheduledDays, stats.ScheduledDays, stats.MissedDays)))
			fmt.Fprintln(out, ui.LabelValue("Completion rate", fmt.Sprintf("%d%% %s", stats.CompletionRate, ui.Bar(float64(stats.CompletionRate), 100, 20))))
			if stats.CapsuleRateValid && stats.CapsulesTotal > 0 {
				fmt.Fprintln(out, ui.LabelValue("Capsule rate", fmt.Sprintf("%d%% (%d/%d)", stats.CapsuleCompletionRate, stats.CapsulesCompleted, stats.CapsulesTotal)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("Weekly"))
			for _, w := range stats.Weekly {
				fmt.Fprintf(out, "- %s  %2d logs %s\n",
					w.WeekStart.Format("Jan 02"),
					w.Completions,
					ui.Muted.Render(fmt.Sprintf("(%.1f)", w.Quantity)),
				)
			}

			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render("Heatmap"))
			fmt.Fprintln(out, renderHeatmap(stats.Heatmap))
			return nil
		},
	}

	cmd.Flags().IntVarP(&weeks, "weeks", "w", engine.DefaultWindowWeeks, "Lookback window in weeks (4|8|12)")

	return cmd
}

// renderHeatmap prints one glyph per day, a row per week.
func renderHeatmap(days []engine.HeatmapDay) string {
	var out string
	for i, d := range days {
		switch {
		case d.Count >= 2:
			out += ui.Good.Render("█")
		case d.Count > 0:
			out += ui.Good.Render("▓")
		default:
			out += ui.Muted.Render("░")
		}
		if (i+1)%7 == 0 {
			out += "\n"
		}
	}
	return out
}
