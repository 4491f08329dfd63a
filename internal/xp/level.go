// Package xp holds the XP-to-level curve. The ledger consumes it as a plain
// function so callers can substitute their own curve.
package xp

import "math"

// LevelForXP converts a lifetime XP total to a level. Levels follow a square
// root curve: level 1 at 0 XP, level 2 at 100, level 3 at 400, level 4 at
// 900, and so on. Monotonic non-decreasing in totalXP.
func LevelForXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(totalXP)/100.0)) + 1
}

// XPForLevel is the inverse bound: the minimum XP total at which a user
// reaches the given level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}
