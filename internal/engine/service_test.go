package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"growthcoach/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(db)
}

func TestCreateHabitDefaultsAndCapsules(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	res, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:         "Deep Work",
		Unit:         UnitMinutes,
		DailyGoal:    60,
		AutoChunking: true,
		EnableChunks: true,
	})
	require.NoError(t, err)
	require.Equal(t, "deep-work", res.HabitKey)
	require.Equal(t, 7, res.PlateauDaysRequired) // trial, non-ND
	require.Equal(t, 4, res.Chunks.NumChunks)
	require.Equal(t, 15.0, res.Chunks.ChunkValue)

	h, err := svc.HabitRepo().Get(ctx, "deep-work")
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Equal(t, string(ModeTrial), h.GoalMode)
	require.Equal(t, string(MeasurementTimer), h.Measurement)
	require.Equal(t, 5, h.ConfidenceCheck)
	require.Equal(t, 7, h.FrequencyPerWeek)

	p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
	require.NoError(t, err)
	day := NewTimeContext(time.Now().UTC(), p.Timezone).Day()
	caps, err := svc.CapsuleRepo().ListForDay(ctx, "deep-work", day)
	require.NoError(t, err)
	require.Len(t, caps, 4)
	for _, c := range caps {
		require.False(t, c.Completed)
	}

	_, err = svc.CreateHabit(ctx, CreateHabitInput{Name: "Deep Work", Unit: UnitMinutes, DailyGoal: 30})
	require.Error(t, err)
}

func TestLogCompletionAwardsAndCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:         "Deep Work",
		Unit:         UnitMinutes,
		DailyGoal:    60,
		AutoChunking: true,
		EnableChunks: true,
	})
	require.NoError(t, err)

	// A 30-minute timer session fills half the capsules.
	res, err := svc.LogCompletion(ctx, LogInput{HabitKey: "deep-work", DurationSecs: 1800})
	require.NoError(t, err)
	require.Equal(t, 30.0, res.ProgressToday)
	require.Equal(t, 2, res.CapsulesFilled)
	require.Equal(t, 4, res.CapsulesTotal)
	require.False(t, res.GoalMet)
	require.Equal(t, 30, res.XPAwarded)
	require.True(t, res.PlateauCounted)
	require.Equal(t, 1, res.CompletionsInPlateau)

	// Same day again: progress accumulates, the plateau clock does not.
	res, err = svc.LogCompletion(ctx, LogInput{HabitKey: "deep-work", DurationSecs: 1800})
	require.NoError(t, err)
	require.Equal(t, 60.0, res.ProgressToday)
	require.True(t, res.GoalMet)
	require.Equal(t, 4, res.CapsulesFilled)
	require.False(t, res.PlateauCounted)
	require.Equal(t, 1, res.CompletionsInPlateau)

	p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
	require.NoError(t, err)
	require.Equal(t, 60, p.XP)
}

func TestMeasurementDefaultsFollowUnit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	cases := []struct {
		name        string
		unit        Unit
		measurement MeasurementType // zero value = let the default apply
		want        MeasurementType
	}{
		{"Reading", UnitMinutes, "", MeasurementTimer},
		{"Pushups", UnitReps, "", MeasurementUnitCount},
		{"Vitamins", UnitDose, MeasurementBinary, MeasurementBinary},
	}
	for _, c := range cases {
		res, err := svc.CreateHabit(ctx, CreateHabitInput{
			Name:        c.name,
			Unit:        c.unit,
			Measurement: c.measurement,
			DailyGoal:   10,
		})
		require.NoError(t, err)
		h, err := svc.HabitRepo().Get(ctx, res.HabitKey)
		require.NoError(t, err)
		require.Equal(t, string(c.want), h.Measurement, "unit %s", c.unit)
	}
}

func TestProfileSettingsWidenPlateauWindow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	tz := "America/New_York"
	nd := true
	p, err := svc.SetProfileSettings(ctx, &tz, &nd)
	require.NoError(t, err)
	require.Equal(t, "America/New_York", p.Timezone)
	require.True(t, p.NeurodivergentMode)

	// New trial habits pick up the wider ND window.
	res, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:      "Stretching",
		Unit:      UnitMinutes,
		DailyGoal: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 14, res.PlateauDaysRequired)

	bad := "Mars/Olympus"
	_, err = svc.SetProfileSettings(ctx, &bad, nil)
	require.Error(t, err)

	// A failed update leaves the stored settings alone.
	p, err = svc.ProfileRepo().GetOrCreateMain(ctx)
	require.NoError(t, err)
	require.Equal(t, "America/New_York", p.Timezone)
}

func TestLogBinaryDefaultsToWholeGoal(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:        "Vitamins",
		Unit:        UnitDose,
		Measurement: MeasurementBinary,
		DailyGoal:   1,
		Mode:        ModeFixed,
	})
	require.NoError(t, err)

	res, err := svc.LogCompletion(ctx, LogInput{HabitKey: "vitamins"})
	require.NoError(t, err)
	require.True(t, res.GoalMet)
	require.Equal(t, 1.0, res.ProgressToday)
}

func TestUnlogReversesByEventID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Pushups", Unit: UnitReps, DailyGoal: 20})
	require.NoError(t, err)

	logged, err := svc.LogCompletion(ctx, LogInput{HabitKey: "pushups", Amount: 20})
	require.NoError(t, err)
	require.Equal(t, 20, logged.XPAwarded)

	un, err := svc.UnlogCompletion(ctx, logged.EventID)
	require.NoError(t, err)
	require.Equal(t, "pushups", un.HabitKey)
	require.Equal(t, 20, un.XPDeducted)
	require.True(t, un.PlateauUncounted)

	p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, p.XP)

	h, err := svc.HabitRepo().Get(ctx, "pushups")
	require.NoError(t, err)
	require.Equal(t, 0, h.CompletionsInPlateau)

	// The event is gone; a second reversal has nothing to target.
	_, err = svc.UnlogCompletion(ctx, logged.EventID)
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDependencyLock(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Warmup", Unit: UnitMinutes, DailyGoal: 5})
	require.NoError(t, err)

	dep := "warmup"
	_, err = svc.CreateHabit(ctx, CreateHabitInput{Name: "Lifting", Unit: UnitMinutes, DailyGoal: 30, DependsOn: &dep})
	require.NoError(t, err)

	_, err = svc.LogCompletion(ctx, LogInput{HabitKey: "lifting", Amount: 30})
	var locked DependencyLockedError
	require.ErrorAs(t, err, &locked)
	require.Equal(t, "warmup", locked.DependsOn)

	// Meet the prerequisite's goal, then the dependent habit unlocks.
	_, err = svc.LogCompletion(ctx, LogInput{HabitKey: "warmup", Amount: 5})
	require.NoError(t, err)
	_, err = svc.LogCompletion(ctx, LogInput{HabitKey: "lifting", Amount: 30})
	require.NoError(t, err)
}

func TestDayRolloverCarryoverAndStreak(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:             "Reading",
		Unit:             UnitMinutes,
		DailyGoal:        30,
		CarryoverEnabled: true,
		CarryoverPolicy:  CarryoverRollover,
	})
	require.NoError(t, err)

	// 20 of 30 minutes logged yesterday.
	y := time.Now().UTC().AddDate(0, 0, -1)
	err = svc.CompletionRepo().Insert(ctx, &storage.Completion{
		ID:          "evt-yesterday",
		HabitKey:    "reading",
		Value:       20,
		XPEarned:    20,
		CompletedAt: time.Date(y.Year(), y.Month(), y.Day(), 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	res, err := svc.DayRollover(ctx)
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.Len(t, res.Habits, 1)
	require.Equal(t, 10.0, res.Habits[0].Carryover)
	require.Equal(t, 40.0, res.Habits[0].AdjustedGoal)
	require.Equal(t, 1, res.StreakAfter)

	h, err := svc.HabitRepo().Get(ctx, "reading")
	require.NoError(t, err)
	require.Equal(t, 10.0, h.CarryoverValue)
	require.Equal(t, 30.0, h.CurrentDailyGoal)

	// Second run the same day is a no-op.
	res, err = svc.DayRollover(ctx)
	require.NoError(t, err)
	require.False(t, res.Applied)
	require.Equal(t, 1, res.StreakAfter)
}

func TestDayRolloverPromotesTrial(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Meditation", Unit: UnitMinutes, DailyGoal: 10})
	require.NoError(t, err)

	h, err := svc.HabitRepo().Get(ctx, "meditation")
	require.NoError(t, err)
	h.CompletionsInPlateau = h.PlateauDaysRequired
	require.NoError(t, svc.HabitRepo().Update(ctx, h))

	res, err := svc.DayRollover(ctx)
	require.NoError(t, err)
	require.True(t, res.Habits[0].Promoted)

	h, err = svc.HabitRepo().Get(ctx, "meditation")
	require.NoError(t, err)
	require.Equal(t, string(ModeGrowth), h.GoalMode)
	require.Equal(t, 0, h.CompletionsInPlateau)
	require.Equal(t, 10.0, h.CurrentDailyGoal)
	require.Equal(t, 7, h.PlateauDaysRequired) // confidence 5, non-ND
}

func TestDayRolloverIncrementsGrowthGoal(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{
		Name:        "Running",
		Unit:        UnitMinutes,
		DailyGoal:   20,
		Mode:        ModeGrowth,
		GrowthType:  GrowthPercentage,
		GrowthValue: 10,
	})
	require.NoError(t, err)

	h, err := svc.HabitRepo().Get(ctx, "running")
	require.NoError(t, err)
	h.CompletionsInPlateau = h.PlateauDaysRequired
	require.NoError(t, svc.HabitRepo().Update(ctx, h))

	res, err := svc.DayRollover(ctx)
	require.NoError(t, err)
	require.True(t, res.Habits[0].GoalIncreased)
	require.Equal(t, 22.0, res.Habits[0].NewGoal)

	h, err = svc.HabitRepo().Get(ctx, "running")
	require.NoError(t, err)
	require.Equal(t, 22.0, h.CurrentDailyGoal)
	require.Equal(t, 0, h.CompletionsInPlateau)
	require.NotNil(t, h.LastGoalIncreaseDay)
}

func TestSetGoalResetsPlateauAndRespectsFreeze(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Stretching", Unit: UnitMinutes, DailyGoal: 10})
	require.NoError(t, err)

	h, err := svc.HabitRepo().Get(ctx, "stretching")
	require.NoError(t, err)
	h.CompletionsInPlateau = 4
	require.NoError(t, svc.HabitRepo().Update(ctx, h))

	require.NoError(t, svc.SetGoal(ctx, "stretching", 15))
	h, err = svc.HabitRepo().Get(ctx, "stretching")
	require.NoError(t, err)
	require.Equal(t, 15.0, h.CurrentDailyGoal)
	require.Equal(t, 0, h.CompletionsInPlateau)

	require.NoError(t, svc.SetFrozen(ctx, "stretching", true))
	err = svc.SetGoal(ctx, "stretching", 20)
	var frozen FrozenError
	require.ErrorAs(t, err, &frozen)
}

func TestTogglePodPersists(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.TogglePod(ctx, true)
	require.NoError(t, err)
	require.True(t, p.PodActive)
	require.NotNil(t, p.PodStartedAt)

	p, err = svc.TogglePod(ctx, false)
	require.NoError(t, err)
	require.False(t, p.PodActive)
	require.Nil(t, p.PodStartedAt)
}

func TestTemplatesAcceptAndGate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	list, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)

	byCode := map[string]TemplateStatus{}
	for _, ts := range list {
		byCode[ts.Def.Code] = ts
	}
	require.True(t, byCode["pushups_starter"].Available)
	require.False(t, byCode["study_block"].Available) // needs level 3
	require.False(t, byCode["pushups_starter"].Accepted)

	res, err := svc.AcceptTemplate(ctx, "pushups_starter")
	require.NoError(t, err)
	require.Equal(t, "push-ups", res.HabitKey)

	_, err = svc.AcceptTemplate(ctx, "study_block")
	require.Error(t, err)

	list, err = svc.ListTemplates(ctx)
	require.NoError(t, err)
	for _, ts := range list {
		if ts.Def.Code == "pushups_starter" {
			require.True(t, ts.Accepted)
		}
	}
}

func TestResetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateHabit(ctx, CreateHabitInput{Name: "Journaling", Unit: UnitMinutes, DailyGoal: 5})
	require.NoError(t, err)
	_, err = svc.LogCompletion(ctx, LogInput{HabitKey: "journaling", Amount: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHabit(ctx, "journaling"))
	h, err := svc.HabitRepo().Get(ctx, "journaling")
	require.NoError(t, err)
	require.Nil(t, h)

	// Event log survives a soft delete.
	n, err := svc.CompletionRepo().CountAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, svc.ResetAll(ctx))
	p, err := svc.ProfileRepo().GetOrCreateMain(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, p.XP)
	require.Equal(t, 0, p.DailyStreak)
}
