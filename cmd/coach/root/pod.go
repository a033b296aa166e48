package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newPodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pod <start|stop>",
		Short: "Enter or exit the regen pod (2x energy recovery)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || (args[0] != "start" && args[0] != "stop") {
				return errors.New("usage: pod <start|stop>")
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

			p, err := svc.TogglePod(ctx, args[0] == "start")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p.PodActive {
				fmt.Fprintln(out, ui.Heading(ui.IconPod, "Pod active"))
				fmt.Fprintln(out, ui.Muted.Render("Energy recovers at double rate until you stop."))
			} else {
				fmt.Fprintln(out, ui.Heading(ui.IconBolt, "Pod off"))
			}
			fmt.Fprintln(out, ui.LabelValue("Energy", fmt.Sprintf("%.0f / %.0f", p.Energy, p.MaxEnergy)))
			return nil
		},
	}

	return cmd
}
