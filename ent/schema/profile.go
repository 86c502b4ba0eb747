package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Profile holds a learner's XP, level and daily streak. The id is the
// user id.
type Profile struct {
	ent.Schema
}

func (Profile) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.Int("total_xp").
			Default(0),
		field.Int("current_level").
			Default(1),
		field.Int("daily_streak").
			Default(0),
		field.Time("last_activity_date").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now),
	}
}
