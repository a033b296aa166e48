package engine

import (
	"testing"

	"growthcoach/internal/config"
)

func TestRolloverCarriesFullShortfall(t *testing.T) {
	tun := config.Default()

	got := NextCarryover(tun, CarryoverRollover, true, 30, 20)
	if got != 10 {
		t.Fatalf("carryover=%v, want 10", got)
	}

	// Next day's adjusted goal = base + shortfall.
	if adjusted := 30 + got; adjusted != 40 {
		t.Fatalf("adjusted=%v, want 40", adjusted)
	}
}

func TestCarryoverNeverNegative(t *testing.T) {
	tun := config.Default()

	// Overshoot.
	if got := NextCarryover(tun, CarryoverRollover, true, 30, 45); got != 0 {
		t.Fatalf("overshoot carryover=%v, want 0", got)
	}
	// Disabled.
	if got := NextCarryover(tun, CarryoverRollover, false, 30, 0); got != 0 {
		t.Fatalf("disabled carryover=%v, want 0", got)
	}
	// Exact hit.
	if got := NextCarryover(tun, CarryoverGentle, true, 30, 30); got != 0 {
		t.Fatalf("exact-hit carryover=%v, want 0", got)
	}
}

func TestGentleCarryoverHalvesAndCaps(t *testing.T) {
	tun := config.Default()

	// Half of a 10-unit shortfall.
	if got := NextCarryover(tun, CarryoverGentle, true, 30, 20); got != 5 {
		t.Fatalf("gentle carryover=%v, want 5", got)
	}

	// A fully missed day would carry 15 (half of 30), which hits the
	// half-goal cap exactly.
	if got := NextCarryover(tun, CarryoverGentle, true, 30, 0); got != 15 {
		t.Fatalf("gentle full-miss carryover=%v, want 15", got)
	}

	// Tighter cap wins over the factor.
	tight := tun
	tight.GentleCarryoverCap = 0.2
	if got := NextCarryover(tight, CarryoverGentle, true, 30, 0); got != 6 {
		t.Fatalf("capped gentle carryover=%v, want 6", got)
	}
}

func TestConsumeCarryover(t *testing.T) {
	// Base goal covered plus 4 into the carryover.
	if got := ConsumeCarryover(10, 30, 34); got != 6 {
		t.Fatalf("consumed carryover=%v, want 6", got)
	}
	// Base goal not yet covered: carryover untouched.
	if got := ConsumeCarryover(10, 30, 25); got != 10 {
		t.Fatalf("carryover=%v, want 10", got)
	}
	// Logged past everything: clamps at zero.
	if got := ConsumeCarryover(10, 30, 100); got != 0 {
		t.Fatalf("carryover=%v, want 0", got)
	}
}
