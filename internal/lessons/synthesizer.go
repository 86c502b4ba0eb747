package lessons

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/platform/logger"
)

// Purpose labels recorded with every generation request.
const (
	PurposeLesson     = "lesson"
	PurposeAssessment = "assessment"
)

// Source says where a synthesized lesson came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Generator produces model text. *llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, bool)
}

// Result is a synthesized lesson together with the exact bytes that were
// validated, so callers can persist them unchanged.
type Result struct {
	Lesson Lesson
	Raw    []byte
	Source Source
}

// Synthesizer turns a lesson request into a valid Lesson. It never fails:
// every problem along the way is logged and answered with fallback content.
type Synthesizer struct {
	gen    Generator
	cfg    Config
	log    *logger.Logger
	tracer trace.Tracer
}

// NewSynthesizer creates a Synthesizer. A nil gen always serves fallback
// content.
func NewSynthesizer(gen Generator, cfg Config, log *logger.Logger) *Synthesizer {
	def := DefaultConfig()
	if cfg.PersonalizedMaxTokens <= 0 {
		cfg.PersonalizedMaxTokens = def.PersonalizedMaxTokens
	}
	if cfg.AssessmentMaxTokens <= 0 {
		cfg.AssessmentMaxTokens = def.AssessmentMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.RawLogLimit <= 0 {
		cfg.RawLogLimit = def.RawLogLimit
	}
	return &Synthesizer{
		gen:    gen,
		cfg:    cfg,
		log:    logger.OrNop(log),
		tracer: otel.Tracer("github.com/abhisek/linguo/internal/lessons"),
	}
}

// SynthesizePersonalized produces a lesson of type t for a learner at
// level (1..3). seed varies the content between refreshes.
func (s *Synthesizer) SynthesizePersonalized(ctx context.Context, userID string, t Type, level int, seed int64) Result {
	ctx, span := s.tracer.Start(ctx, "lessons.synthesize")
	defer span.End()
	span.SetAttributes(
		attribute.String("lesson.type", string(t)),
		attribute.Int("lesson.level", level),
	)

	req := llm.Request{
		System:      lessonSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildPersonalizedUserMessage(t, DifficultyForLevel(level), seed)}},
		MaxTokens:   s.cfg.PersonalizedMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	log := s.log.With("user_id", userID, "lesson_type", string(t), "level", level)
	res := s.synthesize(llm.WithPurpose(ctx, PurposeLesson), req, log, func() Lesson {
		return FallbackLesson(string(t), level)
	})
	span.SetAttributes(attribute.String("lesson.source", string(res.Source)))
	return res
}

// SynthesizeAssessment produces the ten-question placement lesson.
func (s *Synthesizer) SynthesizeAssessment(ctx context.Context) Result {
	ctx, span := s.tracer.Start(ctx, "lessons.synthesize")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.type", string(TypeAssessment)))

	req := llm.Request{
		System:      lessonSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildAssessmentUserMessage()}},
		MaxTokens:   s.cfg.AssessmentMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	log := s.log.With("lesson_type", string(TypeAssessment))
	res := s.synthesize(llm.WithPurpose(ctx, PurposeAssessment), req, log, FallbackAssessment)
	span.SetAttributes(attribute.String("lesson.source", string(res.Source)))
	return res
}

func (s *Synthesizer) synthesize(ctx context.Context, req llm.Request, log *logger.Logger, fallback func() Lesson) Result {
	if s.gen == nil {
		log.Debug("lesson generation disabled, serving fallback")
		return s.fallback(fallback, log)
	}

	text, ok := s.gen.Generate(ctx, req)
	if !ok {
		log.Warn("lesson generation unavailable, serving fallback")
		return s.fallback(fallback, log)
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		log.Warn("no JSON object in model output, serving fallback", "raw", truncate(text, s.cfg.RawLogLimit))
		return s.fallback(fallback, log)
	}

	l, verr := ParseLesson(raw)
	if verr != nil {
		log.Warn("model output failed validation, serving fallback",
			"error", verr,
			"raw", truncate(text, s.cfg.RawLogLimit),
		)
		return s.fallback(fallback, log)
	}

	log.Info("lesson generated", "units", len(l.Lessons), "questions", l.QuestionCount())
	return Result{Lesson: l, Raw: raw, Source: SourceGenerated}
}

func (s *Synthesizer) fallback(build func() Lesson, log *logger.Logger) Result {
	l := build()
	raw, err := json.Marshal(l)
	if err != nil {
		// Lesson holds only strings, ints and slices.
		log.Error("marshal fallback lesson", "error", err)
	}
	return Result{Lesson: l, Raw: raw, Source: SourceFallback}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
