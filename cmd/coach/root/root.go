package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "coach",
	Short:         "Growth Coach — adaptive habit progression, local-first",
	Long:          "Growth Coach is a local-first CLI/TUI habit tracker whose daily goals adapt to your actual consistency.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newLogCmd(),
		newUnlogCmd(),
		newListCmd(),
		newStatusCmd(),
		newProfileCmd(),
		newStatsCmd(),
		newRolloverCmd(),
		newPodCmd(),
		newAcceptCmd(),
		newBoardCmd(),
		newSetCmd(),
		newMoodCmd(),
		newDeleteCmd(),
		newResetCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
