package engine

import (
	"testing"
	"time"

	"growthcoach/internal/config"
)

func baseEnergy(at time.Time) EnergyState {
	return EnergyState{Energy: 10, MaxEnergy: 100, LastRegenAt: at}
}

func TestAccrueEnergyWholeMinutes(t *testing.T) {
	tun := config.Default()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s := baseEnergy(start)

	s = AccrueEnergy(tun, s, start.Add(5*time.Minute+30*time.Second))
	if s.Energy != 15 {
		t.Fatalf("energy=%v, want 15", s.Energy)
	}
	// The timestamp only advances by the minutes actually consumed, so
	// the leftover 30s are not lost.
	if !s.LastRegenAt.Equal(start.Add(5 * time.Minute)) {
		t.Fatalf("lastRegenAt=%v, want %v", s.LastRegenAt, start.Add(5*time.Minute))
	}

	s = AccrueEnergy(tun, s, start.Add(6*time.Minute))
	if s.Energy != 16 {
		t.Fatalf("energy after leftover minute=%v, want 16", s.Energy)
	}
}

func TestAccrueEnergyCapAndClockGuards(t *testing.T) {
	tun := config.Default()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s := baseEnergy(start)

	// A long gap caps at MaxEnergy.
	s = AccrueEnergy(tun, s, start.Add(8*time.Hour))
	if s.Energy != 100 {
		t.Fatalf("energy=%v, want cap 100", s.Energy)
	}

	// A clock that went backwards accrues nothing.
	before := s
	s = AccrueEnergy(tun, s, start.Add(-time.Hour))
	if s != before {
		t.Fatalf("backwards clock mutated state: %+v", s)
	}

	// Sub-minute reads are no-ops.
	s.LastRegenAt = start
	s.Energy = 10
	s = AccrueEnergy(tun, s, start.Add(20*time.Second))
	if s.Energy != 10 || !s.LastRegenAt.Equal(start) {
		t.Fatalf("sub-minute read drifted state: %+v", s)
	}
}

func TestPodDoublesRegen(t *testing.T) {
	tun := config.Default()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s := baseEnergy(start)

	s = StartPod(tun, s, start)
	if !s.PodActive || s.PodStartedAt == nil {
		t.Fatalf("pod not active: %+v", s)
	}

	s = AccrueEnergy(tun, s, start.Add(10*time.Minute))
	if s.Energy != 30 { // 10 + 10min * 2
		t.Fatalf("pod energy=%v, want 30", s.Energy)
	}
}

func TestPodSwitchFinalizesAtOldRate(t *testing.T) {
	tun := config.Default()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s := baseEnergy(start)

	// 10 minutes at 1x before the pod starts.
	podAt := start.Add(10 * time.Minute)
	s = StartPod(tun, s, podAt)
	if s.Energy != 20 {
		t.Fatalf("energy at pod start=%v, want 20", s.Energy)
	}

	// 10 minutes at 2x, then stop: the stop finalizes at the pod rate.
	stopAt := podAt.Add(10 * time.Minute)
	s = StopPod(tun, s, stopAt)
	if s.Energy != 40 {
		t.Fatalf("energy at pod stop=%v, want 40", s.Energy)
	}
	if s.PodActive || s.PodStartedAt != nil {
		t.Fatalf("pod still active after stop: %+v", s)
	}

	// Both transitions are idempotent.
	again := StopPod(tun, s, stopAt.Add(time.Second))
	if again.PodActive {
		t.Fatalf("double stop re-activated pod")
	}
	s = StartPod(tun, s, stopAt)
	if got := StartPod(tun, s, stopAt.Add(time.Second)); !got.PodStartedAt.Equal(*s.PodStartedAt) {
		t.Fatalf("double start moved pod start time")
	}
}

func TestSpendAndRefundClamp(t *testing.T) {
	s := EnergyState{Energy: 5, MaxEnergy: 100}

	s = SpendEnergy(s, 20)
	if s.Energy != 0 {
		t.Fatalf("spend below zero: energy=%v", s.Energy)
	}

	s.Energy = 95
	s = RefundEnergy(s, 20)
	if s.Energy != 100 {
		t.Fatalf("refund above max: energy=%v", s.Energy)
	}
}
