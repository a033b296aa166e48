package engine

import (
	"context"
	"fmt"
	"strings"

	"growthcoach/internal/storage"
)

// TemplateDef is a pre-tuned starter habit. Unlock decides whether the
// profile has earned it yet.
type TemplateDef struct {
	Code string

	Name        string
	Category    Category
	Unit        Unit
	Measurement MeasurementType
	DailyGoal   float64
	Mode        GoalMode
	GrowthType  GrowthType
	GrowthValue float64
	Carryover   bool

	Unlock func(p *storage.Profile) bool
}

func builtinTemplates() []TemplateDef {
	return []TemplateDef{
		{
			Code:        "pushups_starter",
			Name:        "Push-ups",
			Category:    CategoryPhysical,
			Unit:        UnitReps,
			Measurement: MeasurementUnitCount,
			DailyGoal:   20,
			Mode:        ModeTrial,
			GrowthType:  GrowthPercentage,
			GrowthValue: 10,
			Unlock:      func(p *storage.Profile) bool { return true },
		},
		{
			Code:        "meditation_10",
			Name:        "Meditation",
			Category:    CategoryAnchor,
			Unit:        UnitMinutes,
			Measurement: MeasurementTimer,
			DailyGoal:   10,
			Mode:        ModeTrial,
			GrowthType:  GrowthFixed,
			GrowthValue: 2,
			Unlock:      func(p *storage.Profile) bool { return true },
		},
		{
			Code:        "study_block",
			Name:        "Focused study",
			Category:    CategoryCognitive,
			Unit:        UnitMinutes,
			Measurement: MeasurementTimer,
			DailyGoal:   25,
			Mode:        ModeTrial,
			GrowthType:  GrowthPercentage,
			GrowthValue: 15,
			Carryover:   true,
			Unlock:      func(p *storage.Profile) bool { return p.Level >= 3 },
		},
		{
			Code:        "vitamins",
			Name:        "Vitamins",
			Category:    CategoryWellness,
			Unit:        UnitDose,
			Measurement: MeasurementBinary,
			DailyGoal:   1,
			Mode:        ModeFixed,
			Unlock:      func(p *storage.Profile) bool { return true },
		},
		{
			Code:        "long_run",
			Name:        "Long run",
			Category:    CategoryPhysical,
			Unit:        UnitMinutes,
			Measurement: MeasurementTimer,
			DailyGoal:   45,
			Mode:        ModeGrowth,
			GrowthType:  GrowthPercentage,
			GrowthValue: 5,
			Unlock:      func(p *storage.Profile) bool { return p.Level >= 5 && p.DailyStreak >= 7 },
		},
	}
}

// TemplateStatus pairs a definition with its availability for display.
type TemplateStatus struct {
	Def       TemplateDef
	Available bool
	Accepted  bool
}

// ListTemplates reports every starter template with unlock/accepted state.
func (s *Service) ListTemplates(ctx context.Context) ([]TemplateStatus, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}

	var out []TemplateStatus
	for _, def := range builtinTemplates() {
		existing, err := s.habits.Get(ctx, Slugify(def.Name))
		if err != nil {
			return nil, err
		}
		out = append(out, TemplateStatus{
			Def:       def,
			Available: def.Unlock(p),
			Accepted:  existing != nil,
		})
	}
	return out, nil
}

// AcceptTemplate instantiates a starter template as a real habit.
func (s *Service) AcceptTemplate(ctx context.Context, code string) (*CreateHabitResult, error) {
	c := strings.TrimSpace(strings.ToLower(code))
	if c == "" {
		return nil, fmt.Errorf("template code is required")
	}

	var def *TemplateDef
	defs := builtinTemplates()
	for i := range defs {
		if defs[i].Code == c {
			def = &defs[i]
			break
		}
	}
	if def == nil {
		return nil, fmt.Errorf("unknown template: %s", c)
	}

	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !def.Unlock(p) {
		return nil, fmt.Errorf("template %s is not unlocked yet", c)
	}

	return s.CreateHabit(ctx, CreateHabitInput{
		Name:             def.Name,
		Category:         def.Category,
		Unit:             def.Unit,
		Measurement:      def.Measurement,
		DailyGoal:        def.DailyGoal,
		Mode:             def.Mode,
		GrowthType:       def.GrowthType,
		GrowthValue:      def.GrowthValue,
		CarryoverEnabled: def.Carryover,
		AutoChunking:     true,
		EnableChunks:     true,
	})
}
