package engine

import (
	"math"
	"time"

	"growthcoach/internal/config"
)

// EnergyState mirrors the profile fields the regeneration math touches.
type EnergyState struct {
	Energy       float64
	MaxEnergy    float64
	LastRegenAt  time.Time
	PodActive    bool
	PodStartedAt *time.Time
}

// RegenRate returns energy gained per minute for the current pod state.
func RegenRate(t config.Tuning, podActive bool) float64 {
	rate := t.EnergyRegenPerMinute
	if podActive {
		rate *= t.PodRegenMultiplier
	}
	return rate
}

// AccrueEnergy advances stored energy to "now" using elapsed wall-clock
// minutes at the current rate, capped at MaxEnergy. There is no ticker;
// callers recompute whenever they read or mutate energy. Whole minutes
// only, so sub-minute reads never drift the timestamp forward.
func AccrueEnergy(t config.Tuning, s EnergyState, now time.Time) EnergyState {
	if now.Before(s.LastRegenAt) {
		return s
	}
	minutes := math.Floor(now.Sub(s.LastRegenAt).Minutes())
	if minutes <= 0 {
		return s
	}

	s.Energy = math.Min(s.MaxEnergy, s.Energy+minutes*RegenRate(t, s.PodActive))
	s.LastRegenAt = s.LastRegenAt.Add(time.Duration(minutes) * time.Minute)
	return s
}

// StartPod finalizes accrual at the normal rate, then switches to the pod
// rate from now on. Idempotent while already active.
func StartPod(t config.Tuning, s EnergyState, now time.Time) EnergyState {
	if s.PodActive {
		return s
	}
	s = AccrueEnergy(t, s, now)
	s.PodActive = true
	s.PodStartedAt = &now
	s.LastRegenAt = now
	return s
}

// StopPod finalizes accrual at the pod rate, then returns to the normal
// rate. Idempotent while already inactive.
func StopPod(t config.Tuning, s EnergyState, now time.Time) EnergyState {
	if !s.PodActive {
		return s
	}
	s = AccrueEnergy(t, s, now)
	s.PodActive = false
	s.PodStartedAt = nil
	s.LastRegenAt = now
	return s
}

// SpendEnergy deducts a completion's cost, clamped at zero.
func SpendEnergy(s EnergyState, cost float64) EnergyState {
	s.Energy -= cost
	if s.Energy < 0 {
		s.Energy = 0
	}
	return s
}

// RefundEnergy returns energy from a reversed completion, capped at max.
func RefundEnergy(s EnergyState, cost float64) EnergyState {
	s.Energy += cost
	if s.Energy > s.MaxEnergy {
		s.Energy = s.MaxEnergy
	}
	return s
}
