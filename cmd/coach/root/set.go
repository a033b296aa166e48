package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/ui"
)

func newSetCmd() *cobra.Command {
	var goal float64
	var freeze bool
	var unfreeze bool
	var chunksAuto bool
	var numChunks int
	var chunkSize float64

	cmd := &cobra.Command{
		Use:   "set <habit>",
		Short: "Change a habit's goal, freeze state or chunking",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit key is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if freeze && unfreeze {
				return errors.New("pick one of --freeze / --unfreeze")
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			key := args[0]
			out := cmd.OutOrStdout()
			changed := false

			if freeze || unfreeze {
				if err := svc.SetFrozen(ctx, key, freeze); err != nil {
					return err
				}
				changed = true
				if freeze {
					fmt.Fprintln(out, ui.IconFrozen+" "+ui.LabelValue(key, "growth paused"))
				} else {
					fmt.Fprintln(out, ui.LabelValue(key, "growth resumed"))
				}
			}

			if goal > 0 {
				if err := svc.SetGoal(ctx, key, goal); err != nil {
					return err
				}
				changed = true
				fmt.Fprintln(out, ui.LabelValue("Goal", fmt.Sprintf("%v (plateau window restarted)", goal)))
			}

			if cmd.Flags().Changed("auto-chunks") || cmd.Flags().Changed("num-chunks") || cmd.Flags().Changed("chunk-size") {
				if err := svc.SetChunking(ctx, key, chunksAuto, numChunks, chunkSize); err != nil {
					return err
				}
				changed = true
				fmt.Fprintln(out, ui.LabelValue("Chunking", "updated; today's capsules replanned"))
			}

			if !changed {
				return errors.New("nothing to change; see --help for flags")
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&goal, "goal", "g", 0, "New daily goal in habit units")
	cmd.Flags().BoolVar(&freeze, "freeze", false, "Pause automatic goal growth")
	cmd.Flags().BoolVar(&unfreeze, "unfreeze", false, "Resume automatic goal growth")
	cmd.Flags().BoolVar(&chunksAuto, "auto-chunks", false, "Recompute capsules automatically from the goal")
	cmd.Flags().IntVar(&numChunks, "num-chunks", 0, "Manual capsule count")
	cmd.Flags().Float64Var(&chunkSize, "chunk-size", 0, "Manual capsule size in habit units")

	return cmd
}
