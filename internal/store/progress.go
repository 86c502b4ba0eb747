package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var progressColumns = []string{
	"id", "sequence", "timestamp", "user_id", "lesson_id", "question_index", "answer", "is_correct", "xp_earned",
}

// progressRepo implements ProgressRepo over the progress_events table.
type progressRepo struct {
	db  *sqlx.DB
	b   *entsql.DialectBuilder
	seq *sequenceCounter
}

func (r *progressRepo) Append(ctx context.Context, ev *ProgressEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	ev.ID = uuid.NewString()
	ev.Sequence = seqNum
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.Timestamp = ev.Timestamp.UTC()

	query, args := r.b.Insert(tableProgressEvents).
		Columns(progressColumns...).
		Values(ev.ID, ev.Sequence, ev.Timestamp, ev.UserID, ev.LessonID, ev.QuestionIndex,
			ev.Answer, ev.IsCorrect, ev.XPEarned).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress event: %w", err)
	}
	return nil
}

func (r *progressRepo) CountForLessons(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in := make([]any, len(ids))
	for i, id := range ids {
		in[i] = id
	}

	query, args := r.b.Select().
		From(r.b.Table(tableProgressEvents)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.In("lesson_id", in...),
		)).
		Count().
		Query()

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count progress events: %w", err)
	}
	return n, nil
}

func (r *progressRepo) ListForLesson(ctx context.Context, userID, lessonID string) ([]ProgressEvent, error) {
	query, args := r.b.Select(progressColumns...).
		From(r.b.Table(tableProgressEvents)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("lesson_id", lessonID),
		)).
		OrderBy("sequence").
		Query()

	var evs []ProgressEvent
	if err := r.db.SelectContext(ctx, &evs, query, args...); err != nil {
		return nil, fmt.Errorf("list progress events: %w", err)
	}
	return evs, nil
}
