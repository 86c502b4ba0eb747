package progress

import (
	"testing"
	"time"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestXPFor(t *testing.T) {
	if XPFor(true) != 10 {
		t.Fatalf("expected 10 XP for a correct answer, got %d", XPFor(true))
	}
	if XPFor(false) != 5 {
		t.Fatalf("expected 5 XP for an incorrect answer, got %d", XPFor(false))
	}
}

func TestNextStreak(t *testing.T) {
	day := func(d, h int) *time.Time {
		ts := time.Date(2026, 4, d, h, 0, 0, 0, time.UTC)
		return &ts
	}
	now := *day(10, 8)

	tests := []struct {
		name string
		prev int
		last *time.Time
		want int
	}{
		{"first activity", 0, nil, 1},
		{"same day", 4, day(10, 1), 4},
		{"next day", 4, day(9, 23), 5},
		{"gap", 4, day(7, 12), 1},
		{"zero streak with history", 0, day(9, 12), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStreak(tt.prev, tt.last, now); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNextStreak_UsesUTCDays(t *testing.T) {
	tz := time.FixedZone("UTC-5", -5*3600)
	// 23:30 local on the 9th is 04:30 UTC on the 10th.
	last := time.Date(2026, 4, 9, 23, 30, 0, 0, tz)
	now := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	if got := NextStreak(3, &last, now); got != 3 {
		t.Fatalf("expected same UTC day to keep streak 3, got %d", got)
	}
}

func TestIsCorrect(t *testing.T) {
	if !IsCorrect("  Went ", "went") {
		t.Fatal("expected trimmed, case-insensitive match")
	}
	if IsCorrect("go", "went") {
		t.Fatal("expected mismatch")
	}
}
