package engine

import (
	"fmt"
	"strings"
	"time"
)

type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitReps    Unit = "reps"
	UnitDose    Unit = "dose"
)

func (u Unit) IsValid() bool {
	switch u {
	case UnitMinutes, UnitReps, UnitDose:
		return true
	default:
		return false
	}
}

func ParseUnit(input string) (Unit, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "minutes", "min", "mins":
		return UnitMinutes, nil
	case "reps", "rep":
		return UnitReps, nil
	case "dose", "doses":
		return UnitDose, nil
	default:
		return "", fmt.Errorf("invalid unit: %q", input)
	}
}

type MeasurementType string

const (
	MeasurementTimer     MeasurementType = "timer"
	MeasurementUnitCount MeasurementType = "unit-count"
	MeasurementBinary    MeasurementType = "binary"
)

func (m MeasurementType) IsValid() bool {
	switch m {
	case MeasurementTimer, MeasurementUnitCount, MeasurementBinary:
		return true
	default:
		return false
	}
}

// DefaultMeasurementFor picks the measurement implied by a unit when the
// user did not choose one: minutes habits are timed sessions, everything
// else counts units.
func DefaultMeasurementFor(u Unit) MeasurementType {
	if u == UnitMinutes {
		return MeasurementTimer
	}
	return MeasurementUnitCount
}

type Category string

const (
	CategoryAnchor    Category = "anchor"
	CategoryDaily     Category = "daily"
	CategoryCognitive Category = "cognitive"
	CategoryPhysical  Category = "physical"
	CategoryWellness  Category = "wellness"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryAnchor, CategoryDaily, CategoryCognitive, CategoryPhysical, CategoryWellness:
		return true
	default:
		return false
	}
}

const DefaultCategory Category = CategoryDaily

func ParseCategory(input string) Category {
	s := strings.TrimSpace(strings.ToLower(input))
	c := Category(s)
	if c.IsValid() {
		return c
	}
	return DefaultCategory
}

// GoalMode is the progression mode of a habit. Exactly one holds at any
// time; the persisted form is the legacy is_fixed/is_trial_mode pair with
// fixed dominating, converted at the storage boundary.
type GoalMode string

const (
	ModeFixed  GoalMode = "fixed"
	ModeTrial  GoalMode = "trial"
	ModeGrowth GoalMode = "growth"
)

func (g GoalMode) IsValid() bool {
	switch g {
	case ModeFixed, ModeTrial, ModeGrowth:
		return true
	default:
		return false
	}
}

func ParseGoalMode(input string) (GoalMode, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	g := GoalMode(s)
	if !g.IsValid() {
		return "", fmt.Errorf("invalid goal mode: %q", input)
	}
	return g, nil
}

type GrowthType string

const (
	GrowthPercentage GrowthType = "percentage"
	GrowthFixed      GrowthType = "fixed"
)

func (g GrowthType) IsValid() bool {
	switch g {
	case GrowthPercentage, GrowthFixed:
		return true
	default:
		return false
	}
}

// CarryoverPolicy selects how a daily shortfall rolls into the next day.
// Rollover carries the full shortfall; gentle carries half, capped at half
// the base goal.
type CarryoverPolicy string

const (
	CarryoverRollover CarryoverPolicy = "rollover"
	CarryoverGentle   CarryoverPolicy = "gentle"
)

func (c CarryoverPolicy) IsValid() bool {
	switch c {
	case CarryoverRollover, CarryoverGentle:
		return true
	default:
		return false
	}
}

const DefaultCarryoverPolicy CarryoverPolicy = CarryoverRollover

// ParseWeekdays parses a comma-separated weekday list ("mon,wed,fri") into
// a sorted, deduplicated slice. An empty input means every day.
func ParseWeekdays(input string) ([]time.Weekday, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return AllWeekdays(), nil
	}

	names := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	seen := map[time.Weekday]bool{}
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, ok := names[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %q", part)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", input)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j] < out[i] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func AllWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

// ScheduledOn reports whether a weekday is part of a habit's schedule.
// An empty schedule means the habit runs every day.
func ScheduledOn(days []time.Weekday, d time.Weekday) bool {
	if len(days) == 0 {
		return true
	}
	for _, v := range days {
		if v == d {
			return true
		}
	}
	return false
}
