package engine

import (
	"math"

	"growthcoach/internal/config"
)

// ChunkPlan describes how a day's adjusted goal is split into capsules.
type ChunkPlan struct {
	NumChunks  int
	ChunkValue float64
}

// ChunkInput carries the habit settings that drive capsule planning.
type ChunkInput struct {
	Unit         Unit
	AdjustedGoal float64
	AutoChunking bool
	// Manual overrides, used verbatim when AutoChunking is off.
	ManualChunks     int
	ManualChunkValue float64
}

// PlanChunks computes the capsule layout for a habit-day.
//
// Auto mode: reps habits get an ideal set size of clamp(ceil(goal/divisor),
// min, max); minutes habits get a chunk count from the goal-size tier
// table; everything else (dose, binary) is a single capsule.
func PlanChunks(t config.Tuning, in ChunkInput) ChunkPlan {
	goal := in.AdjustedGoal
	if goal <= 0 {
		return ChunkPlan{NumChunks: 1, ChunkValue: 0}
	}

	if !in.AutoChunking {
		n := in.ManualChunks
		if n < 1 {
			n = 1
		}
		v := in.ManualChunkValue
		if v <= 0 {
			v = math.Ceil(goal / float64(n))
		}
		return ChunkPlan{NumChunks: n, ChunkValue: v}
	}

	switch in.Unit {
	case UnitReps:
		setSize := math.Ceil(goal / float64(t.RepSetDivisor))
		if setSize < float64(t.RepSetMin) {
			setSize = float64(t.RepSetMin)
		}
		if setSize > float64(t.RepSetMax) {
			setSize = float64(t.RepSetMax)
		}
		n := int(math.Ceil(goal / setSize))
		if n < 1 {
			n = 1
		}
		return ChunkPlan{NumChunks: n, ChunkValue: setSize}
	case UnitMinutes:
		n := 1
		for _, tier := range t.MinuteChunkTiers {
			if goal >= tier.MinGoal {
				n = tier.Chunks
				break
			}
		}
		return ChunkPlan{NumChunks: n, ChunkValue: math.Ceil(goal / float64(n))}
	default:
		return ChunkPlan{NumChunks: 1, ChunkValue: goal}
	}
}

// CapsuleValues expands a plan into per-capsule target values. The last
// capsule absorbs any remainder so the values always sum to at least the
// adjusted goal.
func CapsuleValues(plan ChunkPlan, adjustedGoal float64) []float64 {
	n := plan.NumChunks
	if n < 1 {
		n = 1
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = plan.ChunkValue
	}
	remainder := adjustedGoal - plan.ChunkValue*float64(n-1)
	if remainder > plan.ChunkValue {
		values[n-1] = remainder
	}
	return values
}

// CompletedChunks counts how many capsules the cumulative daily progress
// fills. Capsule i is complete when progress >= (i+1)*chunkValue, or when
// it is the last capsule and progress covers the whole adjusted goal (the
// final chunk must not stay open because of rounding).
func CompletedChunks(plan ChunkPlan, adjustedGoal, progress float64) int {
	if plan.NumChunks < 1 || progress <= 0 {
		return 0
	}
	done := 0
	for i := 0; i < plan.NumChunks; i++ {
		last := i == plan.NumChunks-1
		if progress >= float64(i+1)*plan.ChunkValue || (last && progress >= adjustedGoal) {
			done++
		}
	}
	return done
}
