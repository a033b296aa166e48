package storage

import "time"

type Profile struct {
	Key                string
	XP                 int
	Level              int
	Energy             float64
	MaxEnergy          float64
	LastRegenAt        time.Time
	PodActive          bool
	PodStartedAt       *time.Time
	DailyStreak        int
	LastRolloverDay    *string
	Timezone           string
	NeurodivergentMode bool
}

// Habit is the persisted habit row. GoalMode is stored as the legacy
// is_fixed/is_trial_mode column pair; fixed dominates on read.
type Habit struct {
	Key              string
	Name             string
	Category         string
	Unit             string
	Measurement      string
	CurrentDailyGoal float64
	FrequencyPerWeek int
	DaysOfWeek       []int // time.Weekday values, JSON column

	GoalMode             string
	GrowthType           string
	GrowthValue          float64
	MaxGoalCap           *float64
	ConfidenceCheck      int
	CompletionsInPlateau int
	PlateauDaysRequired  int
	LastPlateauStartDay  *string
	LastGoalIncreaseDay  *string
	IsFrozen             bool

	CarryoverEnabled bool
	CarryoverPolicy  string
	CarryoverValue   float64

	AutoChunking  bool
	EnableChunks  bool
	NumChunks     int
	ChunkDuration float64

	DependsOn         *string
	XPPerUnit         float64
	EnergyCostPerUnit float64

	CreatedAt time.Time
	DeletedAt *time.Time
}

// AdjustedDailyGoal is the day's effective target: base goal plus any
// carryover from the previous day.
func (h *Habit) AdjustedDailyGoal() float64 {
	return h.CurrentDailyGoal + h.CarryoverValue
}

// Completion is one immutable logging event. Reversal deletes the row by
// ID; there are no negative entries.
type Completion struct {
	ID           string
	HabitKey     string
	Value        float64
	DurationSecs int
	XPEarned     int
	EnergyCost   float64
	CompletedAt  time.Time
	Note         *string
}

// Capsule is one sub-session of a habit's daily goal for a specific day.
type Capsule struct {
	ID            int64
	HabitKey      string
	Day           string
	Idx           int
	Value         float64
	Completed     bool
	ScheduledTime *string
	Mood          *string
}
