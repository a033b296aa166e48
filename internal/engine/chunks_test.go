package engine

import (
	"testing"

	"growthcoach/internal/config"
)

func TestPlanChunksMinuteTiers(t *testing.T) {
	tun := config.Default()

	cases := []struct {
		goal       float64
		wantChunks int
		wantValue  float64
	}{
		{60, 4, 15},
		{45, 3, 15},
		{30, 2, 15},
		{10, 2, 5},
		{5, 1, 5},
	}
	for _, c := range cases {
		plan := PlanChunks(tun, ChunkInput{Unit: UnitMinutes, AdjustedGoal: c.goal, AutoChunking: true})
		if plan.NumChunks != c.wantChunks || plan.ChunkValue != c.wantValue {
			t.Fatalf("minutes goal %v: got %+v, want {%d %v}", c.goal, plan, c.wantChunks, c.wantValue)
		}
	}
}

func TestPlanChunksRepsSetSize(t *testing.T) {
	tun := config.Default()

	// goal 20: ideal set = clamp(ceil(20/4),5,7) = 5 -> 4 sets of 5.
	plan := PlanChunks(tun, ChunkInput{Unit: UnitReps, AdjustedGoal: 20, AutoChunking: true})
	if plan.NumChunks != 4 || plan.ChunkValue != 5 {
		t.Fatalf("reps goal 20: got %+v, want {4 5}", plan)
	}

	// goal 40: ceil(40/4)=10 clamps to 7 -> 6 sets of 7.
	plan = PlanChunks(tun, ChunkInput{Unit: UnitReps, AdjustedGoal: 40, AutoChunking: true})
	if plan.NumChunks != 6 || plan.ChunkValue != 7 {
		t.Fatalf("reps goal 40: got %+v, want {6 7}", plan)
	}
}

func TestPlanChunksCoverageProperty(t *testing.T) {
	tun := config.Default()
	for _, unit := range []Unit{UnitMinutes, UnitReps, UnitDose} {
		for goal := 1.0; goal <= 120; goal++ {
			plan := PlanChunks(tun, ChunkInput{Unit: unit, AdjustedGoal: goal, AutoChunking: true})
			if plan.NumChunks < 1 {
				t.Fatalf("%s goal %v: numChunks %d < 1", unit, goal, plan.NumChunks)
			}
			if float64(plan.NumChunks)*plan.ChunkValue < goal {
				t.Fatalf("%s goal %v: %d x %v does not cover goal", unit, goal, plan.NumChunks, plan.ChunkValue)
			}
		}
	}
}

func TestPlanChunksManualOverride(t *testing.T) {
	tun := config.Default()
	plan := PlanChunks(tun, ChunkInput{Unit: UnitMinutes, AdjustedGoal: 60, AutoChunking: false, ManualChunks: 6, ManualChunkValue: 10})
	if plan.NumChunks != 6 || plan.ChunkValue != 10 {
		t.Fatalf("manual override: got %+v, want {6 10}", plan)
	}

	// Zero manual chunks still yields at least one.
	plan = PlanChunks(tun, ChunkInput{Unit: UnitMinutes, AdjustedGoal: 60, AutoChunking: false})
	if plan.NumChunks != 1 {
		t.Fatalf("manual zero chunks: got %d, want 1", plan.NumChunks)
	}
}

func TestCapsuleValuesAbsorbRemainder(t *testing.T) {
	// Manual plan that undershoots: 3 x 10 against goal 35.
	values := CapsuleValues(ChunkPlan{NumChunks: 3, ChunkValue: 10}, 35)
	if len(values) != 3 {
		t.Fatalf("len=%d, want 3", len(values))
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum < 35 {
		t.Fatalf("capsule values sum %v < goal 35", sum)
	}
	if values[2] != 15 {
		t.Fatalf("last capsule %v, want 15", values[2])
	}
}

func TestCompletedChunksMonotonic(t *testing.T) {
	plan := ChunkPlan{NumChunks: 4, ChunkValue: 15}
	prev := 0
	for progress := 0.0; progress <= 70; progress += 2.5 {
		got := CompletedChunks(plan, 60, progress)
		if got < prev {
			t.Fatalf("completed chunks decreased at progress %v: %d -> %d", progress, prev, got)
		}
		prev = got
	}
	if prev != 4 {
		t.Fatalf("final chunks=%d, want 4", prev)
	}
}

func TestCompletedChunksLastCapsuleRounding(t *testing.T) {
	// 3 chunks of 17 over a goal of 50: the last chunk closes at the goal,
	// not at 51.
	plan := ChunkPlan{NumChunks: 3, ChunkValue: 17}
	if got := CompletedChunks(plan, 50, 50); got != 3 {
		t.Fatalf("progress 50 of goal 50: %d chunks, want 3", got)
	}
	if got := CompletedChunks(plan, 50, 34); got != 2 {
		t.Fatalf("progress 34: %d chunks, want 2", got)
	}
}
