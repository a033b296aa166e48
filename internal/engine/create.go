package engine

import (
	"context"
	"fmt"
	"time"

	"growthcoach/internal/storage"
)

type CreateHabitInput struct {
	Key         string // derived from Name when empty
	Name        string
	Category    Category
	Unit        Unit
	Measurement MeasurementType

	DailyGoal        float64
	FrequencyPerWeek int
	DaysOfWeek       []time.Weekday

	Mode        GoalMode
	GrowthType  GrowthType
	GrowthValue float64
	MaxGoalCap  *float64
	// Confidence score (1-10) collected at creation; drives the growth
	// plateau window via the tuning table.
	Confidence int

	CarryoverEnabled bool
	CarryoverPolicy  CarryoverPolicy

	AutoChunking  bool
	EnableChunks  bool
	NumChunks     int
	ChunkDuration float64

	DependsOn *string

	XPPerUnit         float64
	EnergyCostPerUnit float64
}

type CreateHabitResult struct {
	HabitKey            string
	PlateauDaysRequired int
	Chunks              ChunkPlan
}

// CreateHabit validates input, applies mode/confidence defaults and plans
// the first day's capsules.
func (s *Service) CreateHabit(ctx context.Context, in CreateHabitInput) (*CreateHabitResult, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.DailyGoal <= 0 {
		return nil, fmt.Errorf("daily goal must be positive")
	}
	if !in.Unit.IsValid() {
		return nil, fmt.Errorf("invalid unit: %q", in.Unit)
	}

	key := in.Key
	if key == "" {
		key = Slugify(name)
	}
	if key == "" {
		return nil, fmt.Errorf("cannot derive a key from %q", name)
	}
	if existing, err := s.habits.Get(ctx, key); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("habit %q already exists", key)
	}

	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	tc := s.timeContext(p)

	measurement := in.Measurement
	if !measurement.IsValid() {
		measurement = DefaultMeasurementFor(in.Unit)
	}
	category := in.Category
	if !category.IsValid() {
		category = DefaultCategory
	}
	mode := in.Mode
	if !mode.IsValid() {
		mode = ModeTrial
	}
	growthType := in.GrowthType
	if !growthType.IsValid() {
		growthType = GrowthPercentage
	}
	growthValue := in.GrowthValue
	if growthValue <= 0 {
		growthValue = 10
	}
	policy := in.CarryoverPolicy
	if !policy.IsValid() {
		policy = DefaultCarryoverPolicy
	}
	confidence := in.Confidence
	if confidence < 1 || confidence > 10 {
		confidence = 5
	}

	freq := in.FrequencyPerWeek
	if len(in.DaysOfWeek) > 0 {
		freq = len(in.DaysOfWeek)
	}
	if freq < 1 {
		freq = 7
	}
	if freq > 7 {
		freq = 7
	}

	var plateauDays int
	switch mode {
	case ModeGrowth:
		plateauDays = s.tuning.GrowthPlateauDays(confidence, p.NeurodivergentMode)
	default:
		plateauDays = s.tuning.TrialDays(p.NeurodivergentMode)
	}

	if in.DependsOn != nil {
		if *in.DependsOn == key {
			return nil, fmt.Errorf("habit cannot depend on itself")
		}
		if _, err := s.getHabit(ctx, *in.DependsOn); err != nil {
			return nil, err
		}
	}

	xpPerUnit := in.XPPerUnit
	if xpPerUnit <= 0 {
		xpPerUnit = 1
	}
	energyCost := in.EnergyCostPerUnit
	if energyCost < 0 {
		energyCost = 0
	}

	today := tc.Day()
	h := &storage.Habit{
		Key:                 key,
		Name:                name,
		Category:            string(category),
		Unit:                string(in.Unit),
		Measurement:         string(measurement),
		CurrentDailyGoal:    in.DailyGoal,
		FrequencyPerWeek:    freq,
		DaysOfWeek:          daysToInts(in.DaysOfWeek),
		GoalMode:            string(mode),
		GrowthType:          string(growthType),
		GrowthValue:         growthValue,
		MaxGoalCap:          in.MaxGoalCap,
		ConfidenceCheck:     confidence,
		PlateauDaysRequired: plateauDays,
		LastPlateauStartDay: &today,
		CarryoverEnabled:    in.CarryoverEnabled,
		CarryoverPolicy:     string(policy),
		AutoChunking:        in.AutoChunking,
		EnableChunks:        in.EnableChunks,
		NumChunks:           in.NumChunks,
		ChunkDuration:       in.ChunkDuration,
		DependsOn:           in.DependsOn,
		XPPerUnit:           xpPerUnit,
		EnergyCostPerUnit:   energyCost,
		CreatedAt:           tc.Now,
	}

	if err := s.habits.Insert(ctx, h); err != nil {
		return nil, err
	}

	plan := s.planFor(h)
	if h.EnableChunks {
		if err := s.writeCapsules(ctx, h, today, plan, 0); err != nil {
			return nil, err
		}
	}

	return &CreateHabitResult{HabitKey: key, PlateauDaysRequired: plateauDays, Chunks: plan}, nil
}

func (s *Service) planFor(h *storage.Habit) ChunkPlan {
	return PlanChunks(s.tuning, ChunkInput{
		Unit:             Unit(h.Unit),
		AdjustedGoal:     h.AdjustedDailyGoal(),
		AutoChunking:     h.AutoChunking,
		ManualChunks:     h.NumChunks,
		ManualChunkValue: h.ChunkDuration,
	})
}

// writeCapsules replaces a habit-day's capsule rows with a fresh plan,
// marking the first completedChunks of them done.
func (s *Service) writeCapsules(ctx context.Context, h *storage.Habit, day string, plan ChunkPlan, completedChunks int) error {
	values := CapsuleValues(plan, h.AdjustedDailyGoal())
	capsules := make([]storage.Capsule, len(values))
	for i, v := range values {
		capsules[i] = storage.Capsule{
			HabitKey:  h.Key,
			Day:       day,
			Idx:       i,
			Value:     v,
			Completed: i < completedChunks,
		}
	}
	return s.capsules.ReplaceForDay(ctx, h.Key, day, capsules)
}

func daysToInts(days []time.Weekday) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		out = append(out, int(d))
	}
	return out
}
