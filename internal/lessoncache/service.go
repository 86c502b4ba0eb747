// Package lessoncache decides whether a learner gets a stored lesson or a
// freshly synthesized one, and persists what it serves.
package lessoncache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/store"
)

// AssessmentTTL is the informational expiry written on assessment rows.
const AssessmentTTL = 30 * 24 * time.Hour

// sharedWorkTimeout bounds a collapsed lookup-and-generate call. The call
// outlives any single caller's context, so it needs its own deadline.
const sharedWorkTimeout = 2 * time.Minute

var (
	// ErrAssessmentCompleted is returned when the learner already finished
	// the one-shot assessment.
	ErrAssessmentCompleted = errors.New("assessment already completed")

	// ErrLessonNotFound is returned for unknown records and for records
	// owned by another user.
	ErrLessonNotFound = errors.New("lesson not found")
)

// Synthesizer produces lessons. *lessons.Synthesizer satisfies it.
type Synthesizer interface {
	SynthesizePersonalized(ctx context.Context, userID string, t lessons.Type, level int, seed int64) lessons.Result
	SynthesizeAssessment(ctx context.Context) lessons.Result
}

// Served is a lesson handed to a learner.
type Served struct {
	// RecordID is empty when the row could not be persisted.
	RecordID   string
	LessonType lessons.Type
	// Data is the serialized lesson, byte-identical to what was stored.
	Data   []byte
	Cached bool
	Source lessons.Source
}

// CompletionStatus summarizes a learner's completed lessons of one type.
type CompletionStatus struct {
	IsCompleted            bool `json:"isCompleted"`
	CompletedCount         int  `json:"completedCount"`
	TotalQuestionsAnswered int  `json:"totalQuestionsAnswered"`
	CanRepeat              bool `json:"canRepeat"`
}

// Service is the lesson cache. It is safe for concurrent use.
type Service struct {
	lessons  store.LessonRepo
	profiles store.ProfileRepo
	progress store.ProgressRepo
	synth    Synthesizer
	locker   Locker
	group    singleflight.Group
	now      func() time.Time
	log      *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLocker sets the cross-process lock taken around each (user, type)
// miss. The default never blocks.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service.
func New(st *store.Store, synth Synthesizer, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		lessons:  st.LessonRepo(),
		profiles: st.ProfileRepo(),
		progress: st.ProgressRepo(),
		synth:    synth,
		locker:   NoopLocker{},
		now:      time.Now,
		log:      logger.OrNop(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PersonalizedLesson returns the learner's current lesson of type t,
// generating a new one when none is stored or the stored one is stale.
// Assessment requests follow the one-shot assessment rules.
func (s *Service) PersonalizedLesson(ctx context.Context, userID string, t lessons.Type) (Served, error) {
	if t == lessons.TypeAssessment {
		return s.AssessmentLesson(ctx, userID)
	}
	return s.shared(ctx, userID, t, func(ctx context.Context) (Served, error) {
		return s.personalized(ctx, userID, t), nil
	})
}

// AssessmentLesson returns the learner's assessment. It fails with
// ErrAssessmentCompleted once any assessment row is completed.
func (s *Service) AssessmentLesson(ctx context.Context, userID string) (Served, error) {
	return s.shared(ctx, userID, lessons.TypeAssessment, func(ctx context.Context) (Served, error) {
		return s.assessment(ctx, userID)
	})
}

// shared collapses concurrent identical requests in this process into one
// call and holds the cross-process lock while it runs. The call runs on a
// context detached from ctx so that one caller going away does not fail
// the others; each caller still stops waiting when its own ctx is done.
func (s *Service) shared(ctx context.Context, userID string, t lessons.Type, fn func(context.Context) (Served, error)) (Served, error) {
	key := userID + "|" + string(t)
	ch := s.group.DoChan(key, func() (any, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedWorkTimeout)
		defer cancel()

		unlock, err := s.locker.Lock(workCtx, key)
		if err != nil {
			s.log.Warn("lesson lock unavailable, continuing unlocked", "user_id", userID, "lesson_type", string(t), "error", err)
		} else {
			defer unlock()
		}
		return fn(workCtx)
	})

	select {
	case <-ctx.Done():
		return Served{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Served{}, res.Err
		}
		return res.Val.(Served), nil
	}
}

func (s *Service) personalized(ctx context.Context, userID string, t lessons.Type) Served {
	now := s.now()
	log := s.log.With("user_id", userID, "lesson_type", string(t))

	rec, err := s.lessons.Latest(ctx, userID, string(t), false)
	switch {
	case err == nil:
		if !lessons.NeedsRefresh(rec.RefreshedAt, t, now) {
			log.Debug("serving cached lesson", "record_id", rec.ID)
			return servedFrom(rec, t)
		}
		log.Info("cached lesson is stale", "record_id", rec.ID, "refreshed_at", rec.RefreshedAt)
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Warn("lesson lookup failed, generating", "error", err)
	}

	level := s.level(ctx, userID)
	res := s.synth.SynthesizePersonalized(ctx, userID, t, level, Seed(now))
	return s.persist(ctx, userID, t, level, res, now, now.Add(lessons.RefreshInterval))
}

func (s *Service) assessment(ctx context.Context, userID string) (Served, error) {
	now := s.now()
	t := lessons.TypeAssessment
	log := s.log.With("user_id", userID, "lesson_type", string(t))

	_, err := s.lessons.Latest(ctx, userID, string(t), true)
	switch {
	case err == nil:
		return Served{}, ErrAssessmentCompleted
	case errors.Is(err, store.ErrNotFound):
	default:
		return Served{}, fmt.Errorf("check assessment completion: %w", err)
	}

	rec, err := s.lessons.Latest(ctx, userID, string(t), false)
	switch {
	case err == nil:
		log.Debug("serving in-progress assessment", "record_id", rec.ID)
		return servedFrom(rec, t), nil
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Warn("assessment lookup failed, generating", "error", err)
	}

	res := s.synth.SynthesizeAssessment(ctx)
	return s.persist(ctx, userID, t, 1, res, now, now.Add(AssessmentTTL)), nil
}

// persist stores a synthesized lesson. A failed write is logged and the
// lesson is still served, without a record id.
func (s *Service) persist(ctx context.Context, userID string, t lessons.Type, level int, res lessons.Result, now, expires time.Time) Served {
	rec := &store.LessonRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		LessonType:      string(t),
		LessonData:      string(res.Raw),
		DifficultyLevel: level,
		Source:          string(res.Source),
		RefreshedAt:     now,
		ExpiresAt:       expires,
		CreatedAt:       now,
	}

	served := Served{
		RecordID:   rec.ID,
		LessonType: t,
		Data:       res.Raw,
		Source:     res.Source,
	}
	if err := s.lessons.Insert(ctx, rec); err != nil {
		s.log.Error("store lesson failed, serving unsaved", "user_id", userID, "lesson_type", string(t), "error", err)
		served.RecordID = ""
		return served
	}

	s.log.Info("stored lesson", "user_id", userID, "lesson_type", string(t), "record_id", rec.ID, "source", string(res.Source))
	return served
}

// level reads the learner's difficulty level, clamped to 1..3. Lookup
// failures and missing profiles yield 1.
func (s *Service) level(ctx context.Context, userID string) int {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		s.log.Warn("profile lookup failed, using level 1", "user_id", userID, "error", err)
		return 1
	}
	if p == nil {
		return 1
	}
	return ClampLevel(p.CurrentLevel)
}

// Record returns the learner's lesson record, or ErrLessonNotFound when it
// does not exist or belongs to someone else.
func (s *Service) Record(ctx context.Context, userID, recordID string) (*store.LessonRecord, error) {
	rec, err := s.lessons.Get(ctx, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson %s: %w", recordID, err)
	}
	if rec.UserID != userID {
		return nil, ErrLessonNotFound
	}
	return rec, nil
}

// MarkCompleted flips the record to completed. Calling it again is a no-op.
func (s *Service) MarkCompleted(ctx context.Context, userID, recordID string) error {
	if _, err := s.Record(ctx, userID, recordID); err != nil {
		return err
	}
	changed, err := s.lessons.MarkCompleted(ctx, recordID, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return ErrLessonNotFound
	}
	if err != nil {
		return fmt.Errorf("complete lesson %s: %w", recordID, err)
	}
	if changed {
		s.log.Info("lesson completed", "user_id", userID, "record_id", recordID)
	}
	return nil
}

// CompletionStatus reports how many lessons of type t the learner finished
// and how many answers they gave in those lessons.
func (s *Service) CompletionStatus(ctx context.Context, userID string, t lessons.Type) (CompletionStatus, error) {
	done, err := s.lessons.List(ctx, userID, string(t), true)
	if err != nil {
		return CompletionStatus{}, fmt.Errorf("list completed lessons: %w", err)
	}

	ids := make([]string, len(done))
	for i, rec := range done {
		ids[i] = rec.ID
	}
	answered, err := s.progress.CountForLessons(ctx, userID, ids)
	if err != nil {
		return CompletionStatus{}, fmt.Errorf("count answers: %w", err)
	}

	return CompletionStatus{
		IsCompleted:            len(done) > 0,
		CompletedCount:         len(done),
		TotalQuestionsAnswered: answered,
		CanRepeat:              false,
	}, nil
}

// Seed is the number of whole UTC days since the Unix epoch.
func Seed(now time.Time) int64 {
	return now.UTC().Unix() / 86400
}

// ClampLevel limits a profile level to the 1..3 difficulty range.
func ClampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 3:
		return 3
	default:
		return level
	}
}

func servedFrom(rec *store.LessonRecord, t lessons.Type) Served {
	return Served{
		RecordID:   rec.ID,
		LessonType: t,
		Data:       []byte(rec.LessonData),
		Cached:     true,
		Source:     lessons.Source(rec.Source),
	}
}
