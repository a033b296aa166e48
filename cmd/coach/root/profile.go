package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newProfileCmd() *cobra.Command {
	var timezone string
	var nd bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change profile settings (timezone, neurodivergent mode)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var tzArg *string
			var ndArg *bool
			if cmd.Flags().Changed("timezone") {
				tzArg = &timezone
			}
			if cmd.Flags().Changed("nd") {
				ndArg = &nd
			}

			out := cmd.OutOrStdout()
			if tzArg == nil && ndArg == nil {
				p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconInfo, "Profile settings"))
				fmt.Fprintln(out, ui.LabelValue("Timezone", p.Timezone))
				fmt.Fprintln(out, ui.LabelValue("Neurodivergent mode", ndText(p.NeurodivergentMode)))
				return nil
			}

			p, err := svc.SetProfileSettings(ctx, tzArg, ndArg)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconDone, "Profile updated"))
			if tzArg != nil {
				fmt.Fprintln(out, ui.LabelValue("Timezone", p.Timezone))
			}
			if ndArg != nil {
				fmt.Fprintln(out, ui.LabelValue("Neurodivergent mode", ndText(p.NeurodivergentMode)))
				fmt.Fprintln(out, ui.Muted.Render("New habits will use the adjusted plateau windows."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for day boundaries (e.g. Europe/Berlin)")
	cmd.Flags().BoolVar(&nd, "nd", false, "Neurodivergent mode: longer plateau windows (--nd=false to turn off)")

	return cmd
}

func ndText(on bool) string {
	if on {
		return ui.Good.Render("on")
	}
	return ui.Muted.Render("off")
}
