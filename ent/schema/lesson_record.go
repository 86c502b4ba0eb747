package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonRecord is one cached lesson for a (user, lesson type) pair. The
// newest non-completed record per pair is canonical; rows are never deleted.
type LessonRecord struct {
	ent.Schema
}

func (LessonRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("user_id").
			NotEmpty(),
		field.String("lesson_type").
			NotEmpty().
			Comment("grammar, vocabulary, writing, speaking, listening, assessment"),
		field.Text("lesson_data").
			Comment("Lesson document exactly as served"),
		field.Int("difficulty_level").
			Default(1),
		field.String("source").
			Default("generated").
			Comment("generated or fallback"),
		field.Bool("completed").
			Default(false),
		field.Time("refreshed_at").
			Comment("When lesson_data was generated; drives freshness"),
		field.Time("expires_at").
			Comment("Informational only"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

func (LessonRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "lesson_type", "completed"),
		index.Fields("created_at"),
	}
}
