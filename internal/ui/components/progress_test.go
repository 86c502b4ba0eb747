package components

import (
	"strings"
	"testing"
)

func TestLevelBar_Percent(t *testing.T) {
	tests := []struct {
		xp   int
		want float64
	}{
		{0, 0},
		{50, 0.5},
		{100, 0},
		{275, 0.75},
		{-10, 0},
	}
	for _, tt := range tests {
		if got := NewLevelBar(tt.xp, 60).Percent(); got != tt.want {
			t.Errorf("Percent(%d) = %v, want %v", tt.xp, got, tt.want)
		}
	}
}

func TestLevelBar_View(t *testing.T) {
	out := NewLevelBar(230, 60).View()
	if !strings.Contains(out, "Level 3") {
		t.Fatalf("expected level label, got %q", out)
	}
	if !strings.Contains(out, "30/100 XP") {
		t.Fatalf("expected xp suffix, got %q", out)
	}
}
