package engine

import "growthcoach/internal/config"

// PlateauState is the slice of habit state the tracker reads and rewrites.
type PlateauState struct {
	Mode                 GoalMode
	Goal                 float64
	CompletionsInPlateau int
	PlateauDaysRequired  int
	GrowthType           GrowthType
	GrowthValue          float64
	MaxGoalCap           *float64
	IsFrozen             bool
	Confidence           int
	Neurodivergent       bool
}

// PlateauResult reports what the evaluation changed.
type PlateauResult struct {
	State         PlateauState
	Promoted      bool // trial -> growth
	GoalIncreased bool
	WindowReset   bool
}

// EvaluatePlateau runs the Trial/Growth/Fixed state machine at a day
// boundary. Fixed is terminal. A full plateau window in trial mode
// promotes the habit to growth; a full window in growth mode applies the
// configured goal increment. Both reset the counter and open a new window.
// A frozen habit keeps counting but neither promotes nor increments.
func EvaluatePlateau(t config.Tuning, s PlateauState) PlateauResult {
	res := PlateauResult{State: s}

	if s.Mode == ModeFixed {
		return res
	}
	if s.PlateauDaysRequired <= 0 {
		res.State.PlateauDaysRequired = t.TrialDays(s.Neurodivergent)
		return res
	}
	if s.CompletionsInPlateau < s.PlateauDaysRequired {
		return res
	}
	if s.IsFrozen {
		return res
	}

	switch s.Mode {
	case ModeTrial:
		res.State.Mode = ModeGrowth
		res.State.CompletionsInPlateau = 0
		res.State.PlateauDaysRequired = t.GrowthPlateauDays(s.Confidence, s.Neurodivergent)
		res.Promoted = true
		res.WindowReset = true
	case ModeGrowth:
		res.State.Goal = IncrementGoal(s.Goal, s.GrowthType, s.GrowthValue, s.MaxGoalCap)
		res.State.CompletionsInPlateau = 0
		res.GoalIncreased = res.State.Goal != s.Goal
		res.WindowReset = true
	}
	return res
}

// IncrementGoal applies one growth step and clamps to the cap when set.
// Percentage growth is exact; fractional goals are fine.
func IncrementGoal(goal float64, gt GrowthType, value float64, cap *float64) float64 {
	next := goal
	switch gt {
	case GrowthPercentage:
		next = goal + goal*value/100
	case GrowthFixed:
		next = goal + value
	}
	if cap != nil && next > *cap {
		next = *cap
	}
	if next < goal {
		next = goal
	}
	return next
}
