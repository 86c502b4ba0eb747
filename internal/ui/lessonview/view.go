// Package lessonview renders a lesson for the terminal.
package lessonview

import (
	"fmt"
	"strings"

	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/ui/theme"
)

// Options control what Render shows.
type Options struct {
	// Source is shown as a badge next to the first title when set.
	Source string
	// ShowAnswers reveals the correct answer and explanation.
	ShowAnswers bool
	Width       int
}

// Render lays out every unit of l as a card.
func Render(l lessons.Lesson, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for i, u := range l.Lessons {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.Card.Width(width).Render(renderUnit(u, i == 0, opts)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderUnit(u lessons.Unit, first bool, opts Options) string {
	var b strings.Builder

	title := theme.Title.Render(u.Title)
	if first && opts.Source != "" {
		title += "  " + theme.SourceBadge(opts.Source)
	}
	b.WriteString(title + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s · %d XP", u.Topic, u.Difficulty, unitXP(u))) + "\n")
	if u.Description != "" {
		b.WriteString(theme.Body.Render(u.Description) + "\n")
	}

	for i, q := range u.Questions {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render(fmt.Sprintf("%d.", i+1)) + " " + theme.Body.Render(q.Question))
		b.WriteString(" " + theme.Hint.Render(fmt.Sprintf("(%s, %d XP)", q.Type, q.XPReward)) + "\n")
		for j, o := range q.Options {
			line := fmt.Sprintf("   %c) %s", 'a'+j, o)
			if opts.ShowAnswers && o == q.CorrectAnswer {
				line = theme.Correct.Render(line)
			}
			b.WriteString(line + "\n")
		}
		if opts.ShowAnswers {
			if len(q.Options) == 0 {
				b.WriteString("   " + theme.Correct.Render("→ "+q.CorrectAnswer) + "\n")
			}
			if q.Explanation != "" {
				b.WriteString("   " + theme.Hint.Render(q.Explanation) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func unitXP(u lessons.Unit) int {
	total := 0
	for _, q := range u.Questions {
		total += q.XPReward
	}
	return total
}
