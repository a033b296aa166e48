package engine

import "context"

type HabitRollover struct {
	HabitKey string

	Carryover    float64
	AdjustedGoal float64

	Promoted      bool
	GoalIncreased bool
	NewGoal       float64
	PlateauReset  bool
}

type RolloverResult struct {
	Day          string
	Applied      bool
	StreakBefore int
	StreakAfter  int
	Habits       []HabitRollover
}

// DayRollover applies the date boundary: yesterday's shortfall becomes
// carryover, the plateau machine runs (promotions and goal increments),
// today's capsules are planned against the new adjusted goals, and the
// profile streak updates. Idempotent per local day.
func (s *Service) DayRollover(ctx context.Context) (*RolloverResult, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	tc := s.timeContext(p)
	today := tc.Day()

	if p.LastRolloverDay != nil && *p.LastRolloverDay == today {
		return &RolloverResult{Day: today, StreakBefore: p.DailyStreak, StreakAfter: p.DailyStreak}, nil
	}

	habits, err := s.habits.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	from, to := dayBounds(tc, -1)
	yesterdayWeekday := from.Weekday()

	res := &RolloverResult{Day: today, Applied: true, StreakBefore: p.DailyStreak}

	scheduledYesterday := 0
	completedYesterday := 0

	for i := range habits {
		h := &habits[i]

		list, err := s.completions.ListForHabitBetween(ctx, h.Key, from, to)
		if err != nil {
			return nil, err
		}
		var logged float64
		for _, c := range list {
			logged += c.Value
		}

		wasScheduled := ScheduledOn(weekdaysOf(h.DaysOfWeek), yesterdayWeekday)
		if wasScheduled {
			scheduledYesterday++
			if len(list) > 0 {
				completedYesterday++
			}
		}

		hr := HabitRollover{HabitKey: h.Key}

		if s.tuning.ResetPlateauOnMiss && wasScheduled && len(list) == 0 && GoalMode(h.GoalMode) != ModeFixed {
			if h.CompletionsInPlateau > 0 {
				hr.PlateauReset = true
			}
			h.CompletionsInPlateau = 0
		}

		// Carryover is recomputed from the base goal each night; it does
		// not compound across days.
		h.CarryoverValue = NextCarryover(
			s.tuning,
			CarryoverPolicy(h.CarryoverPolicy),
			h.CarryoverEnabled,
			h.CurrentDailyGoal,
			logged,
		)
		hr.Carryover = h.CarryoverValue

		pr := EvaluatePlateau(s.tuning, PlateauState{
			Mode:                 GoalMode(h.GoalMode),
			Goal:                 h.CurrentDailyGoal,
			CompletionsInPlateau: h.CompletionsInPlateau,
			PlateauDaysRequired:  h.PlateauDaysRequired,
			GrowthType:           GrowthType(h.GrowthType),
			GrowthValue:          h.GrowthValue,
			MaxGoalCap:           h.MaxGoalCap,
			IsFrozen:             h.IsFrozen,
			Confidence:           h.ConfidenceCheck,
			Neurodivergent:       p.NeurodivergentMode,
		})
		h.GoalMode = string(pr.State.Mode)
		h.CurrentDailyGoal = pr.State.Goal
		h.CompletionsInPlateau = pr.State.CompletionsInPlateau
		h.PlateauDaysRequired = pr.State.PlateauDaysRequired
		if pr.WindowReset {
			day := today
			h.LastPlateauStartDay = &day
		}
		if pr.GoalIncreased {
			day := today
			h.LastGoalIncreaseDay = &day
		}
		hr.Promoted = pr.Promoted
		hr.GoalIncreased = pr.GoalIncreased
		hr.NewGoal = h.CurrentDailyGoal
		hr.AdjustedGoal = h.AdjustedDailyGoal()

		if err := s.habits.Update(ctx, h); err != nil {
			return nil, err
		}

		if h.EnableChunks && ScheduledOn(weekdaysOf(h.DaysOfWeek), tc.Weekday()) {
			if err := s.writeCapsules(ctx, h, today, s.planFor(h), 0); err != nil {
				return nil, err
			}
		}

		res.Habits = append(res.Habits, hr)
	}

	// Streak counts full days: every scheduled habit logged at least once.
	if scheduledYesterday > 0 {
		if completedYesterday == scheduledYesterday {
			p.DailyStreak++
		} else {
			p.DailyStreak = 0
		}
	}
	res.StreakAfter = p.DailyStreak

	p.LastRolloverDay = &today
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}

	return res, nil
}
