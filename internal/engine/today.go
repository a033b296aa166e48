package engine

import (
	"context"

	"growthcoach/internal/storage"
)

// HabitToday is one habit's live state for the current local day.
type HabitToday struct {
	Habit storage.Habit

	Scheduled bool
	Locked    bool

	Progress      float64
	AdjustedGoal  float64
	GoalMet       bool
	CarryoverLeft float64

	Plan           ChunkPlan
	CapsulesFilled int
}

// DayOverview powers the list/status/board surfaces: per-habit progress
// plus the parts totals for the header progress bar.
type DayOverview struct {
	Day            string
	TotalParts     int
	CompletedParts int
	Habits         []HabitToday
}

// Today folds every active habit's completions into a day overview.
func (s *Service) Today(ctx context.Context) (*DayOverview, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	tc := s.timeContext(p)

	habits, err := s.habits.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := &DayOverview{Day: tc.Day()}
	for i := range habits {
		h := habits[i]

		_, sum, err := s.countCompletionsToday(ctx, tc, h.Key)
		if err != nil {
			return nil, err
		}

		adjusted := h.AdjustedDailyGoal()
		plan := s.planFor(&h)
		filled := CompletedChunks(plan, adjusted, sum)

		locked := false
		if h.DependsOn != nil {
			locked, err = s.dependencyLocked(ctx, tc, &h)
			if err != nil {
				return nil, err
			}
		}

		ht := HabitToday{
			Habit:          h,
			Scheduled:      ScheduledOn(weekdaysOf(h.DaysOfWeek), tc.Weekday()),
			Locked:         locked,
			Progress:       sum,
			AdjustedGoal:   adjusted,
			GoalMet:        sum >= adjusted,
			CarryoverLeft:  ConsumeCarryover(h.CarryoverValue, h.CurrentDailyGoal, sum),
			Plan:           plan,
			CapsulesFilled: filled,
		}

		if ht.Scheduled {
			out.TotalParts += plan.NumChunks
			out.CompletedParts += filled
		}
		out.Habits = append(out.Habits, ht)
	}

	return out, nil
}

// HabitStats runs the analytics aggregation for one habit over a lookback
// window of whole weeks.
func (s *Service) HabitStats(ctx context.Context, habitKey string, windowWeeks int) (*HabitStats, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	tc := s.timeContext(p)

	h, err := s.getHabit(ctx, habitKey)
	if err != nil {
		return nil, err
	}

	if windowWeeks <= 0 {
		windowWeeks = DefaultWindowWeeks
	}
	windowStart := tc.WeekStart(tc.Now).AddDate(0, 0, -7*(windowWeeks-1))
	_, endOfToday := dayBounds(tc, 0)

	comps, err := s.completions.ListForHabitBetween(ctx, h.Key, windowStart, endOfToday)
	if err != nil {
		return nil, err
	}
	caps, err := s.capsules.ListForHabitBetween(ctx, h.Key, windowStart.Format(DayFormat), endOfToday.Format(DayFormat))
	if err != nil {
		return nil, err
	}

	stats := AggregateHabitStats(tc, h, comps, caps, windowWeeks)
	return &stats, nil
}
