package engine

import "growthcoach/internal/config"

// NextCarryover computes the carryover value a habit takes into the next
// day, given the base goal and the amount logged against today's adjusted
// goal. Overshoot and disabled carryover both yield zero; the result is
// never negative.
//
// Rollover carries the full shortfall. Gentle carries a fraction of it
// (factor), capped at a fraction of the base goal (cap), so the adjusted
// goal cannot balloon after a bad day.
func NextCarryover(t config.Tuning, policy CarryoverPolicy, enabled bool, dailyGoal, loggedAmount float64) float64 {
	if !enabled || dailyGoal <= 0 {
		return 0
	}
	shortfall := dailyGoal - loggedAmount
	if shortfall <= 0 {
		return 0
	}

	switch policy {
	case CarryoverGentle:
		c := shortfall * t.GentleCarryoverFactor
		if limit := dailyGoal * t.GentleCarryoverCap; c > limit {
			c = limit
		}
		return c
	default:
		return shortfall
	}
}

// ConsumeCarryover reduces a habit's carryover as progress is logged the
// following day. Base-goal progress is consumed first, then carryover, so
// carryover only shrinks once the day's own goal is covered.
func ConsumeCarryover(carryover, dailyGoal, loggedToday float64) float64 {
	if carryover <= 0 {
		return 0
	}
	over := loggedToday - dailyGoal
	if over <= 0 {
		return carryover
	}
	remaining := carryover - over
	if remaining < 0 {
		return 0
	}
	return remaining
}
