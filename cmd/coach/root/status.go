package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/engine"
	"growthcoach/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show profile: level, energy, streak, badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
			if err != nil {
				return err
			}
			level := engine.LevelForXP(p.XP)
			nextReq := engine.XPForLevel(level + 1)
			toNext := nextReq - p.XP
			if toNext < 0 {
				toNext = 0
			}
			energy, err := svc.CurrentEnergy(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Profile"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d %s", level, ui.Bar(float64(p.XP-engine.XPForLevel(level)), float64(nextReq-engine.XPForLevel(level)), 30))))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d (next at %d, %d to go)", p.XP, nextReq, toNext)))
			energyLabel := fmt.Sprintf("%.0f / %.0f %s", energy, p.MaxEnergy, ui.Bar(energy, p.MaxEnergy, 20))
			if p.PodActive {
				energyLabel += " " + ui.Good.Render("(pod: 2x regen)")
			}
			fmt.Fprintln(out, ui.LabelValue("Energy", energyLabel))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d days", ui.IconFire, p.DailyStreak)))
			fmt.Fprintln(out, "")

			overview, err := svc.Today(ctx)
			if err != nil {
				return err
			}
			if overview.TotalParts > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconChart+" Today"))
				fmt.Fprintln(out, ui.LabelValue("Capsules", fmt.Sprintf("%d/%d %s", overview.CompletedParts, overview.TotalParts, ui.Bar(float64(overview.CompletedParts), float64(overview.TotalParts), 20))))
				fmt.Fprintln(out, "")
			}

			badges, err := svc.Badges(ctx)
			if err != nil {
				return err
			}
			var earned, locked []engine.Badge
			for _, b := range badges {
				if b.Earned {
					earned = append(earned, b)
				} else {
					locked = append(locked, b)
				}
			}
			if len(earned) > 0 {
				fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Badges"))
				for _, b := range earned {
					fmt.Fprintf(out, "- %s %s %s\n", b.Icon, ui.Good.Render(b.Name), ui.Muted.Render(b.Description))
				}
			}
			if len(locked) > 0 {
				fmt.Fprintln(out, ui.H2.Render("🔒 Locked"))
				for _, b := range locked {
					fmt.Fprintf(out, "- %s\n", ui.Muted.Render(b.Name+" — "+b.Description))
				}
			}
			return nil
		},
	}

	return cmd
}
