package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the adjustable progression tables. Everything that used to
// be an inline branch (chunk tiers, plateau days) lives here as data so it
// can be rebalanced without code changes.
type Tuning struct {
	// Plateau windows
	TrialPlateauDays   int               `yaml:"trial_plateau_days"`
	TrialPlateauDaysND int               `yaml:"trial_plateau_days_nd"`
	GrowthPlateauRules []PlateauDaysRule `yaml:"growth_plateau_rules"`
	// When true, a scheduled-but-missed day zeroes the plateau counter
	// (strict streak). Off by default: the counter tracks days completed.
	ResetPlateauOnMiss bool `yaml:"reset_plateau_on_miss"`

	// Chunking
	MinuteChunkTiers []ChunkTier `yaml:"minute_chunk_tiers"`
	RepSetDivisor    int         `yaml:"rep_set_divisor"`
	RepSetMin        int         `yaml:"rep_set_min"`
	RepSetMax        int         `yaml:"rep_set_max"`

	// Energy
	EnergyRegenPerMinute float64 `yaml:"energy_regen_per_minute"`
	PodRegenMultiplier   float64 `yaml:"pod_regen_multiplier"`
	DefaultMaxEnergy     float64 `yaml:"default_max_energy"`

	// Carryover
	GentleCarryoverFactor float64 `yaml:"gentle_carryover_factor"`
	GentleCarryoverCap    float64 `yaml:"gentle_carryover_cap"`
}

// ChunkTier maps a minimum daily goal (minutes) to a chunk count. Tiers
// are matched top-down, so keep them sorted by descending MinGoal.
type ChunkTier struct {
	MinGoal float64 `yaml:"min_goal"`
	Chunks  int     `yaml:"chunks"`
}

// PlateauDaysRule is one row of the growth plateau-days table. A rule
// matches when the confidence bounds (if set) and the neurodivergent flag
// both hold; the first match wins.
type PlateauDaysRule struct {
	ConfidenceBelow int  `yaml:"confidence_below,omitempty"`
	ConfidenceAbove int  `yaml:"confidence_above,omitempty"`
	Neurodivergent  bool `yaml:"neurodivergent"`
	Days            int  `yaml:"days"`
}

func (r PlateauDaysRule) matches(confidence int, neurodivergent bool) bool {
	if r.Neurodivergent != neurodivergent {
		return false
	}
	if r.ConfidenceBelow > 0 && confidence >= r.ConfidenceBelow {
		return false
	}
	if r.ConfidenceAbove > 0 && confidence <= r.ConfidenceAbove {
		return false
	}
	return true
}

// Default returns the standard progression tuning.
func Default() Tuning {
	return Tuning{
		TrialPlateauDays:   7,
		TrialPlateauDaysND: 14,
		GrowthPlateauRules: []PlateauDaysRule{
			{ConfidenceBelow: 4, Neurodivergent: true, Days: 10},
			{ConfidenceBelow: 4, Neurodivergent: false, Days: 7},
			{ConfidenceAbove: 7, Neurodivergent: true, Days: 7},
			{ConfidenceAbove: 7, Neurodivergent: false, Days: 5},
			{Neurodivergent: true, Days: 10},
			{Neurodivergent: false, Days: 7},
		},
		MinuteChunkTiers: []ChunkTier{
			{MinGoal: 60, Chunks: 4},
			{MinGoal: 45, Chunks: 3},
			{MinGoal: 20, Chunks: 2},
			{MinGoal: 10, Chunks: 2},
		},
		RepSetDivisor:         4,
		RepSetMin:             5,
		RepSetMax:             7,
		EnergyRegenPerMinute:  1,
		PodRegenMultiplier:    2,
		DefaultMaxEnergy:      100,
		GentleCarryoverFactor: 0.5,
		GentleCarryoverCap:    0.5,
	}
}

// Gentle returns a lower-pressure tuning: smaller chunks, longer plateau
// windows, strict streaks off.
func Gentle() Tuning {
	t := Default()
	t.TrialPlateauDays = 10
	t.TrialPlateauDaysND = 16
	t.MinuteChunkTiers = []ChunkTier{
		{MinGoal: 45, Chunks: 5},
		{MinGoal: 30, Chunks: 4},
		{MinGoal: 15, Chunks: 3},
		{MinGoal: 5, Chunks: 2},
	}
	t.RepSetMin = 3
	t.RepSetMax = 5
	t.GentleCarryoverFactor = 0.25
	return t
}

// GrowthPlateauDays resolves the growth-mode plateau window for a
// confidence score collected at habit creation.
func (t Tuning) GrowthPlateauDays(confidence int, neurodivergent bool) int {
	for _, r := range t.GrowthPlateauRules {
		if r.matches(confidence, neurodivergent) {
			return r.Days
		}
	}
	if neurodivergent {
		return t.TrialPlateauDaysND
	}
	return t.TrialPlateauDays
}

// TrialDays resolves the trial-mode plateau window.
func (t Tuning) TrialDays(neurodivergent bool) int {
	if neurodivergent {
		return t.TrialPlateauDaysND
	}
	return t.TrialPlateauDays
}

// LoadFile reads a tuning override from a YAML file.
func LoadFile(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate rejects tables that would break engine invariants.
func (t Tuning) Validate() error {
	if t.TrialPlateauDays <= 0 || t.TrialPlateauDaysND <= 0 {
		return fmt.Errorf("trial plateau days must be positive")
	}
	for _, r := range t.GrowthPlateauRules {
		if r.Days <= 0 {
			return fmt.Errorf("growth plateau rule days must be positive")
		}
	}
	for _, tier := range t.MinuteChunkTiers {
		if tier.Chunks < 1 {
			return fmt.Errorf("chunk tier at min_goal %v must have at least 1 chunk", tier.MinGoal)
		}
	}
	if t.RepSetDivisor < 1 || t.RepSetMin < 1 || t.RepSetMax < t.RepSetMin {
		return fmt.Errorf("invalid rep set bounds")
	}
	if t.EnergyRegenPerMinute < 0 || t.PodRegenMultiplier < 1 {
		return fmt.Errorf("invalid energy rates")
	}
	if t.GentleCarryoverFactor < 0 || t.GentleCarryoverFactor > 1 {
		return fmt.Errorf("gentle carryover factor must be in [0,1]")
	}
	return nil
}
