package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// LessonRecord is one persisted lesson for a (user, lesson type) pair.
type LessonRecord struct {
	ID              string     `db:"id"`
	UserID          string     `db:"user_id"`
	LessonType      string     `db:"lesson_type"`
	LessonData      string     `db:"lesson_data"`
	DifficultyLevel int        `db:"difficulty_level"`
	Source          string     `db:"source"`
	Completed       bool       `db:"completed"`
	RefreshedAt     time.Time  `db:"refreshed_at"`
	ExpiresAt       time.Time  `db:"expires_at"`
	CreatedAt       time.Time  `db:"created_at"`
	CompletedAt     *time.Time `db:"completed_at"`
}

// LessonRepo persists cached lessons. Rows are never deleted.
type LessonRepo interface {
	// Insert stores rec, assigning ID and CreatedAt when unset.
	Insert(ctx context.Context, rec *LessonRecord) error

	// Latest returns the most recently created record for (userID,
	// lessonType) whose completed flag equals completed, or ErrNotFound.
	Latest(ctx context.Context, userID, lessonType string, completed bool) (*LessonRecord, error)

	// List returns matching records, newest first.
	List(ctx context.Context, userID, lessonType string, completed bool) ([]LessonRecord, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*LessonRecord, error)

	// MarkCompleted flips completed to true. It reports whether the row
	// changed; a second call is a no-op. Unknown ids yield ErrNotFound.
	MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error)
}

// Profile is a learner's gamification state.
type Profile struct {
	UserID           string     `db:"id"`
	TotalXP          int        `db:"total_xp"`
	CurrentLevel     int        `db:"current_level"`
	DailyStreak      int        `db:"daily_streak"`
	LastActivityDate *time.Time `db:"last_activity_date"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// ProfileRepo manages learner profiles.
type ProfileRepo interface {
	// Get returns the profile, or nil if none exists.
	Get(ctx context.Context, userID string) (*Profile, error)

	// Ensure returns the profile, creating a default one if absent.
	Ensure(ctx context.Context, userID string) (*Profile, error)

	// ApplyXP stores the new totals computed by the caller.
	ApplyXP(ctx context.Context, userID string, totalXP, level, streak int, activity time.Time) error
}

// ProgressEvent records one answered question.
type ProgressEvent struct {
	ID            string    `db:"id"`
	Sequence      int64     `db:"sequence"`
	Timestamp     time.Time `db:"timestamp"`
	UserID        string    `db:"user_id"`
	LessonID      string    `db:"lesson_id"`
	QuestionIndex int       `db:"question_index"`
	Answer        string    `db:"answer"`
	IsCorrect     bool      `db:"is_correct"`
	XPEarned      int       `db:"xp_earned"`
}

// ProgressRepo provides append and query access to answer events.
type ProgressRepo interface {
	// Append stores ev, assigning ID, Sequence and Timestamp.
	Append(ctx context.Context, ev *ProgressEvent) error

	// CountForLessons counts the user's events whose lesson id is in ids.
	CountForLessons(ctx context.Context, userID string, ids []string) (int, error)

	// ListForLesson returns the user's events for one lesson, oldest first.
	ListForLesson(ctx context.Context, userID, lessonID string) ([]ProgressEvent, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Transport    string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID           string    `db:"id"`
	Sequence     int64     `db:"sequence"`
	Timestamp    time.Time `db:"timestamp"`
	Provider     string    `db:"provider"`
	Transport    string    `db:"transport"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	RequestBody  string    `db:"request_body"`
	ResponseBody string    `db:"response_body"`
}

// LLMUsage aggregates token usage for one group key (purpose or model).
type LLMUsage struct {
	Key          string `db:"key"`
	Requests     int    `db:"requests"`
	Failures     int    `db:"failures"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event by id, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id string) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// PruneLLMEvents deletes events older than before and returns the count.
	PruneLLMEvents(ctx context.Context, before time.Time) (int64, error)
}
