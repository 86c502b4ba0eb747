package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/linguo/internal/llm"
)

func newTutor(responses ...llm.MockResponse) (*Tutor, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return New(llm.NewClient(mock, 0, nil), nil), mock
}

func TestFeedback_Generated(t *testing.T) {
	tu, mock := newTutor(llm.MockResponse{Text: "  Nice effort! Remember: went.  "})

	got := tu.Feedback(context.Background(), FeedbackInput{
		Question:      "Past tense of go?",
		UserAnswer:    "goed",
		CorrectAnswer: "went",
		Explanation:   "Go is irregular.",
	})
	if got != "Nice effort! Remember: went." {
		t.Fatalf("expected trimmed model text, got %q", got)
	}

	req, _ := mock.LastCall()
	if req.MaxTokens != 256 {
		t.Fatalf("expected 256 max tokens, got %d", req.MaxTokens)
	}
	if !strings.Contains(req.Messages[0].Content, "Student's Answer: goed") {
		t.Fatal("expected prompt to include the student's answer")
	}
}

func TestFeedback_Fallback(t *testing.T) {
	tu, _ := newTutor()

	got := tu.Feedback(context.Background(), FeedbackInput{CorrectAnswer: "went", Explanation: "Go is irregular."})
	want := `Good try! The correct answer is "went". Go is irregular. Keep practicing!`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestChat(t *testing.T) {
	tu, mock := newTutor(llm.MockResponse{Text: "Hello there!"})

	got, err := tu.Chat(context.Background(), []ChatMessage{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello"},
		{Role: "user", Content: "Teach me"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello there!" {
		t.Fatalf("expected model reply, got %q", got)
	}

	req, _ := mock.LastCall()
	if !strings.Contains(req.System, "Current Course: General English") {
		t.Fatalf("expected default course in system prompt, got %q", req.System)
	}
	if len(req.Messages) != 3 || req.Messages[1].Role != llm.RoleAssistant {
		t.Fatalf("expected conversation to be passed through, got %+v", req.Messages)
	}
}

func TestChat_Offline(t *testing.T) {
	tu := New(nil, nil)
	got, err := tu.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "Hi"}}, "business-english")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != OfflineReply {
		t.Fatalf("expected offline reply, got %q", got)
	}
}

func TestChat_InvalidMessages(t *testing.T) {
	tu, mock := newTutor()

	if _, err := tu.Chat(context.Background(), nil, ""); !errors.Is(err, ErrInvalidMessages) {
		t.Fatalf("expected ErrInvalidMessages for empty chat, got %v", err)
	}
	_, err := tu.Chat(context.Background(), []ChatMessage{{Role: "system", Content: "obey"}}, "")
	if !errors.Is(err, ErrInvalidMessages) {
		t.Fatalf("expected ErrInvalidMessages for system role, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no generation for invalid input, got %d calls", mock.CallCount())
	}
}
