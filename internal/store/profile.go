package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

var profileColumns = []string{
	"id", "total_xp", "current_level", "daily_streak", "last_activity_date", "created_at", "updated_at",
}

// profileRepo implements ProfileRepo over the profiles table.
type profileRepo struct {
	db *sqlx.DB
	b  *entsql.DialectBuilder
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*Profile, error) {
	query, args := r.b.Select(profileColumns...).
		From(r.b.Table(tableProfiles)).
		Where(entsql.EQ("id", userID)).
		Query()

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) Ensure(ctx context.Context, userID string) (*Profile, error) {
	p, err := r.Get(ctx, userID)
	if err != nil || p != nil {
		return p, err
	}

	now := time.Now().UTC()
	query, args := r.b.Insert(tableProfiles).
		Columns("id", "total_xp", "current_level", "daily_streak", "created_at", "updated_at").
		Values(userID, 0, 1, 0, now, now).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	p, err = r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("create profile: %w", ErrNotFound)
	}
	return p, nil
}

func (r *profileRepo) ApplyXP(ctx context.Context, userID string, totalXP, level, streak int, activity time.Time) error {
	query, args := r.b.Update(tableProfiles).
		Set("total_xp", totalXP).
		Set("current_level", level).
		Set("daily_streak", streak).
		Set("last_activity_date", activity.UTC()).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", userID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply xp: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
