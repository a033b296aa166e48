package engine

import "time"

// DayFormat is the canonical local-day key used across the engine and the
// capsule/rollover tables.
const DayFormat = "2006-01-02"

// TimeContext pins "now" and the user's timezone for one operation so that
// every day-bucketing decision inside it agrees on what today is.
type TimeContext struct {
	Now      time.Time
	Location *time.Location
}

// NewTimeContext builds a context from a wall-clock instant and an IANA
// timezone name. Unknown or empty names fall back to UTC.
func NewTimeContext(now time.Time, tzName string) TimeContext {
	loc, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		loc = time.UTC
	}
	return TimeContext{Now: now, Location: loc}
}

func (tc TimeContext) Local() time.Time {
	return tc.Now.In(tc.loc())
}

// Day returns the local-day key for the context's now.
func (tc TimeContext) Day() string {
	return tc.Local().Format(DayFormat)
}

// DayOf returns the local-day key for an arbitrary instant.
func (tc TimeContext) DayOf(t time.Time) string {
	return t.In(tc.loc()).Format(DayFormat)
}

func (tc TimeContext) Weekday() time.Weekday {
	return tc.Local().Weekday()
}

// StartOfDay returns local midnight for the context's now.
func (tc TimeContext) StartOfDay() time.Time {
	l := tc.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, tc.loc())
}

// WeekStart returns the Sunday-anchored start of the week containing t.
// Analytics buckets by this value.
func (tc TimeContext) WeekStart(t time.Time) time.Time {
	l := t.In(tc.loc())
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, tc.loc())
	return start.AddDate(0, 0, -int(start.Weekday()))
}

func (tc TimeContext) loc() *time.Location {
	if tc.Location == nil {
		return time.UTC
	}
	return tc.Location
}
