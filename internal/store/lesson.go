package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var lessonColumns = []string{
	"id", "user_id", "lesson_type", "lesson_data", "difficulty_level", "source",
	"completed", "refreshed_at", "expires_at", "created_at", "completed_at",
}

// lessonRepo implements LessonRepo over the lesson_records table.
type lessonRepo struct {
	db *sqlx.DB
	b  *entsql.DialectBuilder
}

func (r *lessonRepo) Insert(ctx context.Context, rec *LessonRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.RefreshedAt = rec.RefreshedAt.UTC()
	rec.ExpiresAt = rec.ExpiresAt.UTC()

	query, args := r.b.Insert(tableLessonRecords).
		Columns(lessonColumns...).
		Values(rec.ID, rec.UserID, rec.LessonType, rec.LessonData, rec.DifficultyLevel, rec.Source,
			rec.Completed, rec.RefreshedAt, rec.ExpiresAt, rec.CreatedAt, utcPtr(rec.CompletedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert lesson record: %w", err)
	}
	return nil
}

func (r *lessonRepo) Latest(ctx context.Context, userID, lessonType string, completed bool) (*LessonRecord, error) {
	query, args := r.selectFor(userID, lessonType, completed).Limit(1).Query()

	var rec LessonRecord
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest lesson record: %w", err)
	}
	return &rec, nil
}

func (r *lessonRepo) List(ctx context.Context, userID, lessonType string, completed bool) ([]LessonRecord, error) {
	query, args := r.selectFor(userID, lessonType, completed).Query()

	var recs []LessonRecord
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list lesson records: %w", err)
	}
	return recs, nil
}

func (r *lessonRepo) Get(ctx context.Context, id string) (*LessonRecord, error) {
	query, args := r.b.Select(lessonColumns...).
		From(r.b.Table(tableLessonRecords)).
		Where(entsql.EQ("id", id)).
		Query()

	var rec LessonRecord
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lesson record: %w", err)
	}
	return &rec, nil
}

func (r *lessonRepo) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	query, args := r.b.Update(tableLessonRecords).
		Set("completed", true).
		Set("completed_at", at.UTC()).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("completed", false),
		)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark lesson completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// Nothing changed: either already completed or unknown.
	if _, err := r.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// selectFor orders by created_at then id so ties resolve the same way on
// every read.
func (r *lessonRepo) selectFor(userID, lessonType string, completed bool) *entsql.Selector {
	return r.b.Select(lessonColumns...).
		From(r.b.Table(tableLessonRecords)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("lesson_type", lessonType),
			entsql.EQ("completed", completed),
		)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
