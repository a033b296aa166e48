package engine

import (
	"testing"

	"growthcoach/internal/config"
)

func trialState(completions int) PlateauState {
	return PlateauState{
		Mode:                 ModeTrial,
		Goal:                 20,
		CompletionsInPlateau: completions,
		PlateauDaysRequired:  7,
		GrowthType:           GrowthPercentage,
		GrowthValue:          10,
		Confidence:           5,
	}
}

func TestTrialPromotionAtWindow(t *testing.T) {
	tun := config.Default()

	res := EvaluatePlateau(tun, trialState(7))
	if !res.Promoted {
		t.Fatalf("expected promotion after 7 qualifying days")
	}
	if res.State.Mode != ModeGrowth {
		t.Fatalf("mode=%s, want growth", res.State.Mode)
	}
	if res.State.CompletionsInPlateau != 0 {
		t.Fatalf("counter=%d, want 0", res.State.CompletionsInPlateau)
	}
	// Confidence 5, non-ND: the middle table row.
	if res.State.PlateauDaysRequired != 7 {
		t.Fatalf("new window=%d, want 7", res.State.PlateauDaysRequired)
	}
	if res.State.Goal != 20 {
		t.Fatalf("promotion must not change the goal, got %v", res.State.Goal)
	}
}

func TestTrialNoPromotionBeforeWindow(t *testing.T) {
	tun := config.Default()
	res := EvaluatePlateau(tun, trialState(6))
	if res.Promoted || res.State.Mode != ModeTrial || res.State.CompletionsInPlateau != 6 {
		t.Fatalf("unexpected transition at 6 days: %+v", res)
	}
}

func TestGrowthIncrementPercentage(t *testing.T) {
	tun := config.Default()
	s := trialState(7)
	s.Mode = ModeGrowth

	res := EvaluatePlateau(tun, s)
	if !res.GoalIncreased {
		t.Fatalf("expected goal increase")
	}
	if res.State.Goal != 22 { // 20 * 1.10
		t.Fatalf("goal=%v, want 22", res.State.Goal)
	}
	if res.State.CompletionsInPlateau != 0 {
		t.Fatalf("counter=%d, want 0", res.State.CompletionsInPlateau)
	}
}

func TestGrowthIncrementPercentageExact(t *testing.T) {
	// The step is applied exactly; goals may turn fractional.
	if got := IncrementGoal(25, GrowthPercentage, 10, nil); got != 27.5 {
		t.Fatalf("goal=%v, want 27.5", got)
	}
	if got := IncrementGoal(27.5, GrowthPercentage, 20, nil); got != 33 {
		t.Fatalf("goal=%v, want 33", got)
	}
}

func TestGrowthIncrementFixedWithCap(t *testing.T) {
	tun := config.Default()
	cap := 24.0
	s := trialState(7)
	s.Mode = ModeGrowth
	s.GrowthType = GrowthFixed
	s.GrowthValue = 10
	s.MaxGoalCap = &cap

	res := EvaluatePlateau(tun, s)
	if res.State.Goal != 24 {
		t.Fatalf("goal=%v, want cap 24", res.State.Goal)
	}

	// Already at cap: evaluation resets the window but reports no increase.
	s.Goal = 24
	res = EvaluatePlateau(tun, s)
	if res.GoalIncreased {
		t.Fatalf("goal at cap must not report an increase")
	}
	if res.State.Goal != 24 {
		t.Fatalf("goal=%v, want 24", res.State.Goal)
	}
}

func TestFrozenSuppressesTransitions(t *testing.T) {
	tun := config.Default()
	s := trialState(9)
	s.IsFrozen = true

	res := EvaluatePlateau(tun, s)
	if res.Promoted || res.GoalIncreased {
		t.Fatalf("frozen habit transitioned: %+v", res)
	}
	// Counting stays active while frozen.
	if res.State.CompletionsInPlateau != 9 {
		t.Fatalf("counter=%d, want 9", res.State.CompletionsInPlateau)
	}
}

func TestFixedIsTerminal(t *testing.T) {
	tun := config.Default()
	s := trialState(100)
	s.Mode = ModeFixed
	res := EvaluatePlateau(tun, s)
	if res.Promoted || res.GoalIncreased || res.State.Mode != ModeFixed {
		t.Fatalf("fixed habit moved: %+v", res)
	}
}

func TestPlateauDaysTable(t *testing.T) {
	tun := config.Default()

	cases := []struct {
		confidence int
		nd         bool
		want       int
	}{
		{3, true, 10},
		{3, false, 7},
		{8, true, 7},
		{8, false, 5},
		{5, true, 10},
		{5, false, 7},
	}
	for _, c := range cases {
		if got := tun.GrowthPlateauDays(c.confidence, c.nd); got != c.want {
			t.Fatalf("GrowthPlateauDays(%d, %v)=%d, want %d", c.confidence, c.nd, got, c.want)
		}
	}

	if got := tun.TrialDays(false); got != 7 {
		t.Fatalf("TrialDays(false)=%d, want 7", got)
	}
	if got := tun.TrialDays(true); got != 14 {
		t.Fatalf("TrialDays(true)=%d, want 14", got)
	}
}

func TestIncrementGoalNeverShrinks(t *testing.T) {
	low := 5.0
	if got := IncrementGoal(20, GrowthFixed, -3, nil); got != 20 {
		t.Fatalf("negative growth shrank goal to %v", got)
	}
	if got := IncrementGoal(20, GrowthPercentage, 10, &low); got != 20 {
		t.Fatalf("cap below goal shrank goal to %v", got)
	}
}
