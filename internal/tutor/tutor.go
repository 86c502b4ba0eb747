// Package tutor answers learners with short model-written feedback and chat
// replies, falling back to canned text when generation is unavailable.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/platform/logger"
)

// Purpose labels recorded with tutor requests.
const (
	PurposeFeedback = "feedback"
	PurposeChat     = "chat"
)

// DefaultCourse names the course when a chat does not specify one.
const DefaultCourse = "General English"

// OfflineReply is the chat answer when generation is unavailable.
const OfflineReply = "I'm currently offline, but I'm here to help! Try asking me about grammar, vocabulary, or English learning tips."

// ErrInvalidMessages is returned for an empty conversation or one with
// roles other than user and assistant.
var ErrInvalidMessages = errors.New("invalid messages format")

// Generator produces model text. *llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, bool)
}

// FeedbackInput describes an answered question.
type FeedbackInput struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// ChatMessage is one turn of a tutor conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tutor writes feedback and chat replies.
type Tutor struct {
	gen Generator
	log *logger.Logger
}

// New creates a Tutor. A nil gen always answers with fallback text.
func New(gen Generator, log *logger.Logger) *Tutor {
	return &Tutor{gen: gen, log: logger.OrNop(log)}
}

// Feedback returns two or three encouraging sentences about an answer.
func (t *Tutor) Feedback(ctx context.Context, in FeedbackInput) string {
	req := llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: feedbackPrompt(in)}},
		MaxTokens:   256,
		Temperature: 0.7,
	}
	if text, ok := t.generate(llm.WithPurpose(ctx, PurposeFeedback), req); ok {
		return strings.TrimSpace(text)
	}
	t.log.Info("feedback generation unavailable, using fallback")
	return fmt.Sprintf("Good try! The correct answer is %q. %s Keep practicing!", in.CorrectAnswer, in.Explanation)
}

// Chat continues a conversation about the given course.
func (t *Tutor) Chat(ctx context.Context, messages []ChatMessage, courseID string) (string, error) {
	if len(messages) == 0 {
		return "", ErrInvalidMessages
	}
	msgs := make([]llm.Message, len(messages))
	for i, m := range messages {
		switch llm.Role(m.Role) {
		case llm.RoleUser, llm.RoleAssistant:
		default:
			return "", fmt.Errorf("message %d has role %q: %w", i, m.Role, ErrInvalidMessages)
		}
		msgs[i] = llm.Message{Role: llm.Role(m.Role), Content: m.Content}
	}

	req := llm.Request{
		System:      chatSystemPrompt(courseID),
		Messages:    msgs,
		MaxTokens:   1024,
		Temperature: 0.7,
	}
	if text, ok := t.generate(llm.WithPurpose(ctx, PurposeChat), req); ok {
		return text, nil
	}
	t.log.Info("chat generation unavailable, replying offline", "messages", len(messages))
	return OfflineReply, nil
}

func (t *Tutor) generate(ctx context.Context, req llm.Request) (string, bool) {
	if t.gen == nil {
		return "", false
	}
	return t.gen.Generate(ctx, req)
}
