package lessons

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/abhisek/linguo/internal/llm"
)

func newTestSynth(responses ...llm.MockResponse) (*Synthesizer, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	client := llm.NewClient(mock, 0, nil)
	return NewSynthesizer(client, DefaultConfig(), nil), mock
}

func TestSynthesizePersonalized_Generated(t *testing.T) {
	s, mock := newTestSynth(llm.MockResponse{Text: validLessonJSON})

	res := s.SynthesizePersonalized(context.Background(), "user-1", TypeGrammar, 1, 20500)
	if res.Source != SourceGenerated {
		t.Fatalf("expected generated source, got %s", res.Source)
	}
	if string(res.Raw) != validLessonJSON {
		t.Fatalf("expected raw bytes to match model output")
	}
	if res.Lesson.Lessons[0].ID != "lesson-1" {
		t.Fatalf("expected unit lesson-1, got %q", res.Lesson.Lessons[0].ID)
	}

	req, ok := mock.LastCall()
	if !ok {
		t.Fatal("expected a generation call")
	}
	if req.MaxTokens != 2048 {
		t.Fatalf("expected 2048 max tokens, got %d", req.MaxTokens)
	}
	if req.Temperature != 0.4 {
		t.Fatalf("expected temperature 0.4, got %v", req.Temperature)
	}
	prompt := req.Messages[0].Content
	for _, want := range []string{"Lesson Type: grammar", "Difficulty: beginner", "Seed: 20500", "Return ONLY valid JSON"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestSynthesizePersonalized_FencedOutput(t *testing.T) {
	fenced := "Sure! Here is your lesson:\n```json\n" + validLessonJSON + "\n```\nHave fun."
	s, _ := newTestSynth(llm.MockResponse{Text: fenced})

	res := s.SynthesizePersonalized(context.Background(), "user-1", TypeGrammar, 1, 1)
	if res.Source != SourceGenerated {
		t.Fatalf("expected generated source, got %s", res.Source)
	}
	if string(res.Raw) != validLessonJSON {
		t.Fatalf("expected extracted object, got %q", res.Raw)
	}
}

func TestSynthesizePersonalized_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrRateLimit{}}},
		{"prose only", llm.MockResponse{Text: "I can't do that."}},
		{"unknown difficulty", llm.MockResponse{Text: strings.Replace(validLessonJSON, `"beginner"`, `"expert"`, 1)}},
		{"truncated", llm.MockResponse{Text: validLessonJSON[:200] + "}"}},
		{"empty lessons", llm.MockResponse{Text: `{"lessonNames":["x"],"lessons":[]}`}},
	}
	want := FallbackLesson("writing", 3)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newTestSynth(tt.resp)
			res := s.SynthesizePersonalized(context.Background(), "user-1", TypeWriting, 3, 1)
			if res.Source != SourceFallback {
				t.Fatalf("expected fallback source, got %s", res.Source)
			}
			if !reflect.DeepEqual(res.Lesson, want) {
				t.Fatalf("expected fallback lesson for writing/3")
			}
			if mock.CallCount() != 1 {
				t.Fatalf("expected 1 generation call, got %d", mock.CallCount())
			}
			if verr := ValidateLesson(res.Lesson); verr != nil {
				t.Fatalf("expected served fallback to validate, got %v", verr)
			}

			var decoded Lesson
			if err := json.Unmarshal(res.Raw, &decoded); err != nil {
				t.Fatalf("fallback raw is not JSON: %v", err)
			}
			if !reflect.DeepEqual(decoded, want) {
				t.Fatal("expected raw bytes to encode the fallback lesson")
			}
		})
	}
}

func TestSynthesize_DisabledClient(t *testing.T) {
	s := NewSynthesizer(llm.NewClient(nil, 0, nil), DefaultConfig(), nil)

	first := s.SynthesizePersonalized(context.Background(), "u", TypeSpeaking, 2, 1)
	second := s.SynthesizePersonalized(context.Background(), "u", TypeSpeaking, 2, 99)
	if first.Source != SourceFallback {
		t.Fatalf("expected fallback, got %s", first.Source)
	}
	if string(first.Raw) != string(second.Raw) {
		t.Fatal("expected degraded output to be deterministic")
	}

	nilGen := NewSynthesizer(nil, Config{}, nil)
	if res := nilGen.SynthesizeAssessment(context.Background()); res.Source != SourceFallback {
		t.Fatalf("expected fallback with nil generator, got %s", res.Source)
	}
}

func TestSynthesizeAssessment(t *testing.T) {
	s, mock := newTestSynth()

	res := s.SynthesizeAssessment(context.Background())
	if res.Source != SourceFallback {
		t.Fatalf("expected fallback when queue is empty, got %s", res.Source)
	}
	if !reflect.DeepEqual(res.Lesson, FallbackAssessment()) {
		t.Fatal("expected the fixed assessment")
	}

	req, ok := mock.LastCall()
	if !ok {
		t.Fatal("expected a generation call")
	}
	if req.MaxTokens != 3072 {
		t.Fatalf("expected 3072 max tokens, got %d", req.MaxTokens)
	}
	if !strings.Contains(req.Messages[0].Content, "10 questions") {
		t.Fatal("expected assessment prompt to ask for 10 questions")
	}
}

type purposeRecorder struct{ purpose string }

func (p *purposeRecorder) Generate(ctx context.Context, _ llm.Request) (string, bool) {
	p.purpose = llm.PurposeFrom(ctx)
	return "", false
}

func TestSynthesize_PurposeLabels(t *testing.T) {
	rec := &purposeRecorder{}
	s := NewSynthesizer(rec, DefaultConfig(), nil)

	s.SynthesizePersonalized(context.Background(), "u", TypeGrammar, 1, 1)
	if rec.purpose != PurposeLesson {
		t.Fatalf("expected purpose %q, got %q", PurposeLesson, rec.purpose)
	}
	s.SynthesizeAssessment(context.Background())
	if rec.purpose != PurposeAssessment {
		t.Fatalf("expected purpose %q, got %q", PurposeAssessment, rec.purpose)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("expected abc..., got %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
