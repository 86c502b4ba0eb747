// Package progress records answers and keeps the learner's XP, level and
// daily streak.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/store"
)

var (
	// ErrQuestionOutOfRange is returned for a question index outside the
	// lesson's first unit.
	ErrQuestionOutOfRange = errors.New("question index out of range")

	// ErrForbidden is returned when answering a lesson that is already
	// completed.
	ErrForbidden = errors.New("lesson already completed")
)

// Lessons looks up and completes a learner's lesson records.
// *lessoncache.Service satisfies it.
type Lessons interface {
	Record(ctx context.Context, userID, recordID string) (*store.LessonRecord, error)
	MarkCompleted(ctx context.Context, userID, recordID string) error
}

// Answer is one submitted answer.
type Answer struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
}

// Outcome reports the effect of an answer.
type Outcome struct {
	IsCorrect       bool   `json:"isCorrect"`
	XPEarned        int    `json:"xpEarned"`
	TotalXP         int    `json:"totalXP"`
	CurrentLevel    int    `json:"currentLevel"`
	DailyStreak     int    `json:"dailyStreak"`
	LessonCompleted bool   `json:"lessonCompleted"`
	Explanation     string `json:"explanation"`
	CorrectAnswer   string `json:"correctAnswer"`
}

// Service records answers against stored lessons.
type Service struct {
	lessons  Lessons
	profiles store.ProfileRepo
	events   store.ProgressRepo
	now      func() time.Time
	log      *logger.Logger
}

// NewService creates a Service.
func NewService(st *store.Store, lessons Lessons, log *logger.Logger) *Service {
	return &Service{
		lessons:  lessons,
		profiles: st.ProfileRepo(),
		events:   st.ProgressRepo(),
		now:      time.Now,
		log:      logger.OrNop(log),
	}
}

// SetClock overrides time.Now.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Submit grades an answer to question in.QuestionIndex of the lesson's first
// unit, records it and updates the learner's profile. Answering the last
// question completes the lesson.
func (s *Service) Submit(ctx context.Context, userID, recordID string, in Answer) (Outcome, error) {
	rec, err := s.lessons.Record(ctx, userID, recordID)
	if err != nil {
		return Outcome{}, err
	}
	if rec.Completed {
		return Outcome{}, ErrForbidden
	}

	var l lessons.Lesson
	if err := json.Unmarshal([]byte(rec.LessonData), &l); err != nil {
		return Outcome{}, fmt.Errorf("decode lesson %s: %w", recordID, err)
	}
	if len(l.Lessons) == 0 || in.QuestionIndex < 0 || in.QuestionIndex >= len(l.Lessons[0].Questions) {
		return Outcome{}, ErrQuestionOutOfRange
	}
	questions := l.Lessons[0].Questions
	q := questions[in.QuestionIndex]

	correct := IsCorrect(in.Answer, q.CorrectAnswer)
	xp := XPFor(correct)
	now := s.now()

	if err := s.events.Append(ctx, &store.ProgressEvent{
		UserID:        userID,
		LessonID:      recordID,
		QuestionIndex: in.QuestionIndex,
		Answer:        in.Answer,
		IsCorrect:     correct,
		XPEarned:      xp,
		Timestamp:     now,
	}); err != nil {
		return Outcome{}, fmt.Errorf("record answer: %w", err)
	}

	p, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load profile: %w", err)
	}
	total := p.TotalXP + xp
	level := LevelFor(total)
	streak := NextStreak(p.DailyStreak, p.LastActivityDate, now)
	if err := s.profiles.ApplyXP(ctx, userID, total, level, streak, now); err != nil {
		return Outcome{}, fmt.Errorf("update profile: %w", err)
	}

	out := Outcome{
		IsCorrect:     correct,
		XPEarned:      xp,
		TotalXP:       total,
		CurrentLevel:  level,
		DailyStreak:   streak,
		Explanation:   q.Explanation,
		CorrectAnswer: q.CorrectAnswer,
	}

	if in.QuestionIndex == len(questions)-1 {
		if err := s.lessons.MarkCompleted(ctx, userID, recordID); err != nil {
			return Outcome{}, fmt.Errorf("complete lesson: %w", err)
		}
		out.LessonCompleted = true
	}

	s.log.Info("answer recorded",
		"user_id", userID,
		"record_id", recordID,
		"question_index", in.QuestionIndex,
		"correct", correct,
		"xp", xp,
	)
	return out, nil
}

// Profile returns the learner's profile, creating it on first access.
func (s *Service) Profile(ctx context.Context, userID string) (*store.Profile, error) {
	p, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
