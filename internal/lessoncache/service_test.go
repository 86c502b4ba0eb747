package lessoncache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/store"
	"github.com/abhisek/linguo/internal/store/storetest"
)

const generatedLesson = `{"lessonNames":["Verbs"],"lessons":[{"id":"u1","title":"Verbs","topic":"grammar","difficulty":"beginner","description":"d","questions":[{"id":"q1","type":"fill-in","question":"I ___ home.","correctAnswer":"went","explanation":"past","xpReward":20}]}]}`

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	svc   *Service
	store *store.Store
	mock  *llm.MockProvider
	clock *clock
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	st := storetest.Open(t)
	mock := llm.NewMockProvider(responses...)
	synth := lessons.NewSynthesizer(llm.NewClient(mock, 0, nil), lessons.DefaultConfig(), nil)
	clk := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := New(st, synth, nil, WithClock(clk.Now))
	return &fixture{svc: svc, store: st, mock: mock, clock: clk}
}

func TestPersonalizedLesson_NoRecordGeneratesAndStores(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: generatedLesson})
	ctx := context.Background()

	served, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)
	assert.False(t, served.Cached)
	assert.Equal(t, lessons.SourceGenerated, served.Source)
	assert.Equal(t, generatedLesson, string(served.Data))
	require.NotEmpty(t, served.RecordID)

	rec, err := f.store.LessonRepo().Get(ctx, served.RecordID)
	require.NoError(t, err)
	assert.Equal(t, generatedLesson, rec.LessonData)
	assert.False(t, rec.Completed)
	assert.Equal(t, 1, rec.DifficultyLevel)
	assert.Equal(t, "generated", rec.Source)
	assert.WithinDuration(t, f.clock.Now().Add(48*time.Hour), rec.ExpiresAt, time.Second)
}

func TestPersonalizedLesson_CacheHitIsByteIdentical(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: generatedLesson})
	ctx := context.Background()

	first, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)

	f.clock.Advance(47*time.Hour + 59*time.Minute)
	second, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)

	assert.True(t, second.Cached)
	assert.Equal(t, first.RecordID, second.RecordID)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, f.mock.CallCount())
}

func TestPersonalizedLesson_StaleRegenerates(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Text: generatedLesson})
	ctx := context.Background()

	first, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeVocabulary)
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)
	second, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeVocabulary)
	require.NoError(t, err)

	assert.False(t, second.Cached)
	assert.NotEqual(t, first.RecordID, second.RecordID)
	assert.Equal(t, lessons.SourceFallback, second.Source)
	assert.Equal(t, 2, f.mock.CallCount())

	third, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeVocabulary)
	require.NoError(t, err)
	assert.True(t, third.Cached)
	assert.Equal(t, second.RecordID, third.RecordID)
}

func TestPersonalizedLesson_LevelFromProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.ProfileRepo().Ensure(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, f.store.ProfileRepo().ApplyXP(ctx, "user-1", 900, 10, 1, f.clock.Now()))

	served, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeSpeaking)
	require.NoError(t, err)

	rec, err := f.store.LessonRepo().Get(ctx, served.RecordID)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.DifficultyLevel)

	req, ok := f.mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, "Difficulty: advanced")
}

func TestPersonalizedLesson_CompletedRowsAreIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeWriting)
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkCompleted(ctx, "user-1", first.RecordID))

	second, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeWriting)
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.NotEqual(t, first.RecordID, second.RecordID)
}

func TestAssessment_OneShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AssessmentLesson(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, lessons.SourceFallback, first.Source)

	rec, err := f.store.LessonRepo().Get(ctx, first.RecordID)
	require.NoError(t, err)
	assert.WithinDuration(t, f.clock.Now().Add(30*24*time.Hour), rec.ExpiresAt, time.Second)

	// In progress assessments are reused no matter how old.
	f.clock.Advance(10 * 24 * time.Hour)
	again, err := f.svc.AssessmentLesson(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, first.RecordID, again.RecordID)
	assert.Equal(t, 1, f.mock.CallCount())

	// Other lesson types in progress do not count as a finished assessment.
	grammar, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)
	vocab, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeVocabulary)
	require.NoError(t, err)
	again, err = f.svc.AssessmentLesson(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.RecordID, again.RecordID)
	assert.Equal(t, 3, f.mock.CallCount())

	require.NoError(t, f.svc.MarkCompleted(ctx, "user-1", first.RecordID))

	_, err = f.svc.AssessmentLesson(ctx, "user-1")
	assert.ErrorIs(t, err, ErrAssessmentCompleted)
	_, err = f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeAssessment)
	assert.ErrorIs(t, err, ErrAssessmentCompleted)
	assert.Equal(t, 3, f.mock.CallCount(), "a completed assessment must never trigger generation")

	// The in-progress lessons are still served from storage.
	for _, want := range []Served{grammar, vocab} {
		got, err := f.svc.PersonalizedLesson(ctx, "user-1", want.LessonType)
		require.NoError(t, err)
		assert.True(t, got.Cached)
		assert.Equal(t, want.RecordID, got.RecordID)
	}
	assert.Equal(t, 3, f.mock.CallCount())
}

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	served, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkCompleted(ctx, "user-1", served.RecordID))
	rec, err := f.store.LessonRepo().Get(ctx, served.RecordID)
	require.NoError(t, err)
	require.NotNil(t, rec.CompletedAt)
	completedAt := *rec.CompletedAt

	f.clock.Advance(time.Hour)
	require.NoError(t, f.svc.MarkCompleted(ctx, "user-1", served.RecordID))
	rec, err = f.store.LessonRepo().Get(ctx, served.RecordID)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
	assert.True(t, completedAt.Equal(*rec.CompletedAt), "second call must not move completed_at")

	assert.ErrorIs(t, f.svc.MarkCompleted(ctx, "user-2", served.RecordID), ErrLessonNotFound)
	assert.ErrorIs(t, f.svc.MarkCompleted(ctx, "user-1", "missing"), ErrLessonNotFound)
}

func TestCompletionStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.svc.CompletionStatus(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)
	assert.Equal(t, CompletionStatus{}, status)

	served, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.store.ProgressRepo().Append(ctx, &store.ProgressEvent{
			UserID:        "user-1",
			LessonID:      served.RecordID,
			QuestionIndex: i,
			Answer:        "x",
			XPEarned:      5,
		}))
	}
	require.NoError(t, f.svc.MarkCompleted(ctx, "user-1", served.RecordID))

	status, err = f.svc.CompletionStatus(ctx, "user-1", lessons.TypeGrammar)
	require.NoError(t, err)
	assert.True(t, status.IsCompleted)
	assert.Equal(t, 1, status.CompletedCount)
	assert.Equal(t, 3, status.TotalQuestionsAnswered)
	assert.False(t, status.CanRepeat)
}

type failingLessons struct {
	store.LessonRepo
	readErr  error
	writeErr error
}

func (f failingLessons) Latest(ctx context.Context, userID, lessonType string, completed bool) (*store.LessonRecord, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.LessonRepo.Latest(ctx, userID, lessonType, completed)
}

func (f failingLessons) Insert(ctx context.Context, rec *store.LessonRecord) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.LessonRepo.Insert(ctx, rec)
}

func TestStorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	t.Run("read failure generates", func(t *testing.T) {
		f := newFixture(t, llm.MockResponse{Text: generatedLesson})
		f.svc.lessons = failingLessons{LessonRepo: f.svc.lessons, readErr: boom}

		served, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
		require.NoError(t, err)
		assert.Equal(t, generatedLesson, string(served.Data))
		assert.NotEmpty(t, served.RecordID)
	})

	t.Run("write failure still serves", func(t *testing.T) {
		f := newFixture(t, llm.MockResponse{Text: generatedLesson})
		f.svc.lessons = failingLessons{LessonRepo: f.svc.lessons, writeErr: boom}

		served, err := f.svc.PersonalizedLesson(ctx, "user-1", lessons.TypeGrammar)
		require.NoError(t, err)
		assert.Equal(t, generatedLesson, string(served.Data))
		assert.Empty(t, served.RecordID)
	})

	t.Run("assessment completion check failure surfaces", func(t *testing.T) {
		f := newFixture(t)
		f.svc.lessons = failingLessons{LessonRepo: f.svc.lessons, readErr: boom}

		_, err := f.svc.AssessmentLesson(ctx, "user-1")
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 0, f.mock.CallCount())
	})
}

func TestSeedAndClamp(t *testing.T) {
	assert.Equal(t, int64(0), Seed(time.Unix(86399, 0)))
	assert.Equal(t, int64(1), Seed(time.Unix(86400, 0)))

	for in, want := range map[int]int{-2: 1, 0: 1, 1: 1, 2: 2, 3: 3, 9: 3} {
		assert.Equal(t, want, ClampLevel(in), "level %d", in)
	}
}
