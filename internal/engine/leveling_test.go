package engine

import "testing"

func TestXPForLevelCurve(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 0},
		{2, 100},
		{3, 300},
		{4, 600},
		{10, 4500},
	}
	for _, c := range cases {
		if got := XPForLevel(c.level); got != c.want {
			t.Fatalf("XPForLevel(%d)=%d, want %d", c.level, got, c.want)
		}
	}
}

func TestLevelingMonotonic(t *testing.T) {
	for n := 1; n < 50; n++ {
		if XPForLevel(n+1) <= XPForLevel(n) {
			t.Fatalf("curve not strictly increasing at level %d", n)
		}
	}
}

func TestLevelForXPBoundaries(t *testing.T) {
	for n := 2; n < 30; n++ {
		threshold := XPForLevel(n)
		if got := LevelForXP(threshold); got != n {
			t.Fatalf("LevelForXP(XPForLevel(%d))=%d, want %d", n, got, n)
		}
		if got := LevelForXP(threshold - 1); got != n-1 {
			t.Fatalf("LevelForXP(XPForLevel(%d)-1)=%d, want %d", n, got, n-1)
		}
	}

	if got := LevelForXP(250); got != 2 {
		t.Fatalf("LevelForXP(250)=%d, want 2", got)
	}
	if got := LevelForXP(0); got != 1 {
		t.Fatalf("LevelForXP(0)=%d, want 1", got)
	}
	if got := LevelForXP(-5); got != 1 {
		t.Fatalf("LevelForXP(-5)=%d, want 1", got)
	}
}

func TestLevelProgressClamped(t *testing.T) {
	if got := LevelProgress(0); got != 0 {
		t.Fatalf("LevelProgress(0)=%v, want 0", got)
	}
	// Halfway between level 2 (100) and level 3 (300).
	if got := LevelProgress(200); got != 0.5 {
		t.Fatalf("LevelProgress(200)=%v, want 0.5", got)
	}
	for xp := 0; xp < 5000; xp += 37 {
		f := LevelProgress(xp)
		if f < 0 || f > 1 {
			t.Fatalf("LevelProgress(%d)=%v out of [0,1]", xp, f)
		}
	}
}
