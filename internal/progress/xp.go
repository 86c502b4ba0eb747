package progress

import (
	"strings"
	"time"
)

// XP awarded per answer.
const (
	CorrectXP   = 10
	IncorrectXP = 5
)

// XPPerLevel is the XP needed to advance one level.
const XPPerLevel = 100

// XPFor returns the reward for an answer.
func XPFor(correct bool) int {
	if correct {
		return CorrectXP
	}
	return IncorrectXP
}

// LevelFor returns the level reached with totalXP.
func LevelFor(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// NextStreak returns the daily streak after activity at now, given the
// previous streak and the day of the previous activity. Days are UTC.
func NextStreak(prev int, last *time.Time, now time.Time) int {
	if last == nil || prev <= 0 {
		return 1
	}
	today := utcDay(now)
	lastDay := utcDay(*last)
	switch {
	case today.Equal(lastDay):
		return prev
	case today.Equal(lastDay.AddDate(0, 0, 1)):
		return prev + 1
	default:
		return 1
	}
}

// IsCorrect compares an answer to the expected one, ignoring case and
// surrounding whitespace.
func IsCorrect(answer, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected))
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
