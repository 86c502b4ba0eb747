package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressEvent records one answered question inside a served lesson.
type ProgressEvent struct {
	ent.Schema
}

func (ProgressEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProgressEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").NotEmpty(),
		field.String("lesson_id").NotEmpty().
			Comment("Lesson record id the answer belongs to"),
		field.Int("question_index"),
		field.String("answer"),
		field.Bool("is_correct"),
		field.Int("xp_earned"),
	}
}

func (ProgressEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "lesson_id"),
	}
}
