// Package components renders small reusable terminal widgets.
package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/linguo/internal/progress"
	"github.com/abhisek/linguo/internal/ui/theme"
)

// LevelBar shows how far a learner is through the current level.
type LevelBar struct {
	TotalXP int
	Width   int
}

// NewLevelBar creates a bar for totalXP.
func NewLevelBar(totalXP, width int) LevelBar {
	return LevelBar{TotalXP: totalXP, Width: width}
}

// Percent is the share of the current level already earned, in [0, 1).
func (b LevelBar) Percent() float64 {
	if b.TotalXP <= 0 {
		return 0
	}
	return float64(b.TotalXP%progress.XPPerLevel) / float64(progress.XPPerLevel)
}

// View renders "Level N  [bar]  x/100 XP".
func (b LevelBar) View() string {
	label := theme.Label.Render(fmt.Sprintf("Level %d", progress.LevelFor(b.TotalXP))) + "  "
	suffix := fmt.Sprintf("  %d/%d XP", b.TotalXP%progress.XPPerLevel, progress.XPPerLevel)
	if b.TotalXP < 0 {
		suffix = fmt.Sprintf("  0/%d XP", progress.XPPerLevel)
	}

	barWidth := b.Width - lipgloss.Width(label) - len(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * b.Percent())
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty)) +
		theme.Subtitle.Render(suffix)
}
