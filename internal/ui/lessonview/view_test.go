package lessonview

import (
	"strings"
	"testing"

	"github.com/abhisek/linguo/internal/lessons"
)

func TestRender_ShowsQuestionsAndOptions(t *testing.T) {
	l := lessons.FallbackLesson("grammar", 1)
	out := Render(l, Options{Source: "fallback", Width: 300})

	if !strings.Contains(out, l.Lessons[0].Title) {
		t.Fatalf("expected title %q in output", l.Lessons[0].Title)
	}
	if !strings.Contains(out, "fallback") {
		t.Fatal("expected source badge in output")
	}
	for _, q := range l.Lessons[0].Questions {
		if !strings.Contains(out, q.Question) {
			t.Fatalf("expected question %q in output", q.Question)
		}
	}
}

func TestRender_AnswersHiddenByDefault(t *testing.T) {
	l := lessons.FallbackLesson("writing", 2)
	var explanation string
	for _, q := range l.Lessons[0].Questions {
		if q.Explanation != "" {
			explanation = q.Explanation
			break
		}
	}
	if explanation == "" {
		t.Skip("fallback lesson has no explanations")
	}

	if strings.Contains(Render(l, Options{Width: 300}), explanation) {
		t.Fatal("expected explanation hidden without ShowAnswers")
	}
	if !strings.Contains(Render(l, Options{ShowAnswers: true, Width: 300}), explanation) {
		t.Fatal("expected explanation shown with ShowAnswers")
	}
}

func TestUnitXP(t *testing.T) {
	u := lessons.Unit{Questions: []lessons.Question{{XPReward: 10}, {XPReward: 15}}}
	if got := unitXP(u); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
}
