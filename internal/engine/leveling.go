package engine

// XPLevelCoef is the constant of the leveling curve: XP(n) = 50 * n * (n-1).
const XPLevelCoef = 50

// XPForLevel returns the cumulative XP required to reach the given level.
// Level 1 requires 0 XP.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return XPLevelCoef * level * (level - 1)
}

// XPForNextLevel returns the cumulative XP threshold for the level after
// the current one.
func XPForNextLevel(currentLevel int) int {
	if currentLevel < 1 {
		currentLevel = 1
	}
	return XPForLevel(currentLevel + 1)
}

// LevelForXP returns the smallest level n such that xp < XPForLevel(n+1).
// Linear ascent is fine here: the curve is quadratic and realistic XP
// totals stay small.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	level := 1
	for xp >= XPForLevel(level+1) {
		level++
	}
	return level
}

// LevelProgress returns the progress-bar fraction within the current
// level, clamped to [0,1].
func LevelProgress(xp int) float64 {
	level := LevelForXP(xp)
	lo := XPForLevel(level)
	hi := XPForNextLevel(level)
	if hi <= lo {
		return 0
	}
	f := float64(xp-lo) / float64(hi-lo)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
