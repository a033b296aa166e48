package engine

import (
	"math"
	"time"

	"growthcoach/internal/storage"
)

// WindowWeeks values the stats surface offers.
var WindowWeeks = []int{4, 8, 12}

const DefaultWindowWeeks = 4

type WeekBucket struct {
	WeekStart   time.Time
	Completions int
	Quantity    float64
}

type HeatmapDay struct {
	Day   string
	Count float64
}

// HabitStats is the read-only aggregate a stats view consumes.
type HabitStats struct {
	HabitKey    string
	WindowWeeks int

	TotalCompletions int
	TotalQuantity    float64 // minutes for timer habits, units otherwise

	ScheduledDays          int
	CompletedScheduledDays int
	MissedDays             int
	CompletionRate         int // 0..100

	Weekly []WeekBucket

	CapsulesTotal         int
	CapsulesCompleted     int
	CapsuleCompletionRate int // only meaningful when chunking is enabled
	CapsuleRateValid      bool

	Heatmap []HeatmapDay
}

// AggregateHabitStats folds completion events and capsule rows within a
// lookback window into a single summary. Pure: all data is already in
// memory, and the window is anchored on the time context's today.
func AggregateHabitStats(tc TimeContext, h *storage.Habit, comps []storage.Completion, caps []storage.Capsule, windowWeeks int) HabitStats {
	if windowWeeks <= 0 {
		windowWeeks = DefaultWindowWeeks
	}

	stats := HabitStats{HabitKey: h.Key, WindowWeeks: windowWeeks}

	windowStart := tc.WeekStart(tc.Now).AddDate(0, 0, -7*(windowWeeks-1))
	endOfToday := tc.StartOfDay().AddDate(0, 0, 1)

	// Per-day tallies within the window.
	dayCounts := map[string]int{}
	dayQuantity := map[string]float64{}
	for _, c := range comps {
		at := c.CompletedAt.In(tc.Location)
		if at.Before(windowStart) || !at.Before(endOfToday) {
			continue
		}
		day := tc.DayOf(c.CompletedAt)
		dayCounts[day]++
		q := completionQuantity(h, c)
		dayQuantity[day] += q
		stats.TotalCompletions++
		stats.TotalQuantity += q
	}

	// Scheduled vs completed days, never counting days before the habit
	// existed.
	createdDay := tc.DayOf(h.CreatedAt)
	for d := windowStart; d.Before(endOfToday); d = d.AddDate(0, 0, 1) {
		day := d.Format(DayFormat)
		if day < createdDay {
			continue
		}
		if !ScheduledOn(weekdaysOf(h.DaysOfWeek), d.Weekday()) {
			continue
		}
		stats.ScheduledDays++
		if dayCounts[day] > 0 {
			stats.CompletedScheduledDays++
		}
	}
	stats.MissedDays = stats.ScheduledDays - stats.CompletedScheduledDays
	stats.CompletionRate = ratePercent(stats.CompletedScheduledDays, stats.ScheduledDays)

	// Sunday-anchored weekly buckets for trend charts.
	for w := 0; w < windowWeeks; w++ {
		start := windowStart.AddDate(0, 0, 7*w)
		bucket := WeekBucket{WeekStart: start}
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i).Format(DayFormat)
			bucket.Completions += dayCounts[day]
			bucket.Quantity += dayQuantity[day]
		}
		stats.Weekly = append(stats.Weekly, bucket)
	}

	// Capsule completion rate over the window.
	fromDay := windowStart.Format(DayFormat)
	toDay := endOfToday.Format(DayFormat)
	for _, c := range caps {
		if c.Day < fromDay || c.Day >= toDay {
			continue
		}
		stats.CapsulesTotal++
		if c.Completed {
			stats.CapsulesCompleted++
		}
	}
	stats.CapsuleRateValid = h.EnableChunks
	stats.CapsuleCompletionRate = ratePercent(stats.CapsulesCompleted, stats.CapsulesTotal)

	// Heatmap straight from per-day counts.
	for d := windowStart; d.Before(endOfToday); d = d.AddDate(0, 0, 1) {
		day := d.Format(DayFormat)
		stats.Heatmap = append(stats.Heatmap, HeatmapDay{Day: day, Count: float64(dayCounts[day])})
	}

	return stats
}

// HeatmapFromWeekly spreads week-granular counts evenly across the 7 days
// of each bucket. Used when only weekly rollups are available.
func HeatmapFromWeekly(weekly []WeekBucket) []HeatmapDay {
	var out []HeatmapDay
	for _, w := range weekly {
		perDay := float64(w.Completions) / 7
		for i := 0; i < 7; i++ {
			day := w.WeekStart.AddDate(0, 0, i).Format(DayFormat)
			out = append(out, HeatmapDay{Day: day, Count: perDay})
		}
	}
	return out
}

// completionQuantity converts one event to the habit's display unit:
// timer habits report minutes from recorded duration, unit habits derive
// quantity from the XP earned at the habit's rate.
func completionQuantity(h *storage.Habit, c storage.Completion) float64 {
	if Unit(h.Unit) == UnitMinutes {
		if c.DurationSecs > 0 {
			return float64(c.DurationSecs) / 60
		}
		return c.Value
	}
	if h.XPPerUnit > 0 {
		return float64(c.XPEarned) / h.XPPerUnit
	}
	return c.Value
}

func ratePercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(whole)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func weekdaysOf(days []int) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, time.Weekday(d))
	}
	return out
}
