package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"growthcoach/internal/engine"
	"growthcoach/internal/ui"
)

func newAddCmd() *cobra.Command {
	var unit string
	var measurement string
	var category string
	var goal float64
	var days string
	var mode string
	var growthType string
	var growthValue float64
	var maxGoal float64
	var confidence int
	var carryover bool
	var carryoverPolicy string
	var chunks bool
	var numChunks int
	var chunkDuration float64
	var dependsOn string
	var xpPerUnit float64
	var energyCost float64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			parsedUnit, err := engine.ParseUnit(unit)
			if err != nil {
				return err
			}
			parsedMode, err := engine.ParseGoalMode(mode)
			if err != nil {
				return err
			}

			in := engine.CreateHabitInput{
				Name:              args[0],
				Unit:              parsedUnit,
				Measurement:       engine.MeasurementType(measurement),
				Category:          engine.ParseCategory(category),
				DailyGoal:         goal,
				Mode:              parsedMode,
				GrowthType:        engine.GrowthType(growthType),
				GrowthValue:       growthValue,
				Confidence:        confidence,
				CarryoverEnabled:  carryover,
				CarryoverPolicy:   engine.CarryoverPolicy(carryoverPolicy),
				AutoChunking:      numChunks == 0,
				EnableChunks:      chunks,
				NumChunks:         numChunks,
				ChunkDuration:     chunkDuration,
				XPPerUnit:         xpPerUnit,
				EnergyCostPerUnit: energyCost,
			}
			if maxGoal > 0 {
				in.MaxGoalCap = &maxGoal
			}
			if dependsOn != "" {
				in.DependsOn = &dependsOn
			}
			if days != "" {
				wd, err := engine.ParseWeekdays(days)
				if err != nil {
					return err
				}
				in.DaysOfWeek = wd
			}

			res, err := svc.CreateHabit(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPlus, "Habit created"))
			fmt.Fprintln(out, ui.LabelValue("Key", res.HabitKey))
			fmt.Fprintln(out, ui.LabelValue("Plateau window", fmt.Sprintf("%d days", res.PlateauDaysRequired)))
			if chunks {
				fmt.Fprintln(out, ui.LabelValue("Capsules", fmt.Sprintf("%d x %v", res.Chunks.NumChunks, res.Chunks.ChunkValue)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&unit, "unit", "u", "minutes", "Unit (minutes|reps|dose)")
	cmd.Flags().StringVarP(&measurement, "measure", "m", "", "Measurement (timer|unit-count|binary)")
	cmd.Flags().StringVarP(&category, "category", "c", "daily", "Category (anchor|daily|cognitive|physical|wellness)")
	cmd.Flags().Float64VarP(&goal, "goal", "g", 0, "Daily goal in habit units (required)")
	cmd.Flags().StringVar(&days, "days", "", "Scheduled weekdays, comma separated (e.g. mon,wed,fri); empty = every day")
	cmd.Flags().StringVar(&mode, "mode", "trial", "Goal mode (trial|growth|fixed)")
	cmd.Flags().StringVar(&growthType, "growth-type", "percentage", "Growth type (percentage|fixed)")
	cmd.Flags().Float64Var(&growthValue, "growth-value", 10, "Growth step (percent or units)")
	cmd.Flags().Float64Var(&maxGoal, "max-goal", 0, "Upper bound for auto-increased goals (0 = none)")
	cmd.Flags().IntVar(&confidence, "confidence", 5, "Confidence in the starting goal (1-10)")
	cmd.Flags().BoolVar(&carryover, "carryover", false, "Roll yesterday's shortfall into today's goal")
	cmd.Flags().StringVar(&carryoverPolicy, "carryover-policy", "rollover", "Carryover policy (rollover|gentle)")
	cmd.Flags().BoolVar(&chunks, "chunks", false, "Split the daily goal into capsules")
	cmd.Flags().IntVar(&numChunks, "num-chunks", 0, "Manual capsule count (0 = automatic)")
	cmd.Flags().Float64Var(&chunkDuration, "chunk-size", 0, "Manual capsule size in habit units")
	cmd.Flags().StringVar(&dependsOn, "depends-on", "", "Habit key that must be completed first each day")
	cmd.Flags().Float64Var(&xpPerUnit, "xp-per-unit", 1, "XP awarded per habit unit")
	cmd.Flags().Float64Var(&energyCost, "energy-per-unit", 0, "Energy spent per habit unit")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}
