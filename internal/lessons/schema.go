package lessons

// lessonSchema is the JSON Schema every lesson document must satisfy before
// it is decoded. Constraints that JSON Schema cannot express (answer
// membership, id uniqueness) are checked in validate.go.
var lessonSchema = map[string]any{
	"$schema":  "https://json-schema.org/draft/2020-12/schema",
	"type":     "object",
	"required": []any{"lessonNames", "lessons"},
	"properties": map[string]any{
		"lessonNames": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"lessons": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    unitSchema,
		},
	},
}

var unitSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "title", "topic", "difficulty", "description", "questions"},
	"properties": map[string]any{
		"id":          map[string]any{"type": "string", "minLength": 1},
		"title":       map[string]any{"type": "string"},
		"topic":       map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
		"difficulty": map[string]any{
			"type": "string",
			"enum": []any{
				string(DifficultyBeginner),
				string(DifficultyIntermediate),
				string(DifficultyAdvanced),
			},
		},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    questionSchema,
		},
	},
}

var questionSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "type", "question", "correctAnswer", "explanation", "xpReward"},
	"properties": map[string]any{
		"id": map[string]any{"type": "string", "minLength": 1},
		"type": map[string]any{
			"type": "string",
			"enum": []any{
				string(QuestionMultipleChoice),
				string(QuestionFillIn),
				string(QuestionListening),
				string(QuestionSpeaking),
			},
		},
		"question":      map[string]any{"type": "string"},
		"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"correctAnswer": map[string]any{"type": "string"},
		"explanation":   map[string]any{"type": "string"},
		"xpReward":      map[string]any{"type": "integer", "exclusiveMinimum": 0},
	},
	"allOf": []any{
		map[string]any{
			"if": map[string]any{
				"required":   []any{"type"},
				"properties": map[string]any{"type": map[string]any{"const": string(QuestionMultipleChoice)}},
			},
			"then": map[string]any{
				"required": []any{"options"},
				"properties": map[string]any{
					"options": map[string]any{"minItems": 2},
				},
			},
		},
	},
}
