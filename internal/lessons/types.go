package lessons

import (
	"fmt"
	"strings"
)

// Type is the kind of lesson a learner asks for. Assessment is the one-shot
// placement lesson; every other type is a refreshable topic lesson.
type Type string

const (
	TypeGrammar    Type = "grammar"
	TypeVocabulary Type = "vocabulary"
	TypeWriting    Type = "writing"
	TypeSpeaking   Type = "speaking"
	TypeListening  Type = "listening"
	TypeAssessment Type = "assessment"
)

// AllTypes lists every lesson type in display order.
var AllTypes = []Type{
	TypeGrammar,
	TypeVocabulary,
	TypeWriting,
	TypeSpeaking,
	TypeListening,
	TypeAssessment,
}

// ParseType resolves a lesson type from user input. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown lesson type %q", s)
}

// Difficulty is the closed set of unit difficulty labels.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// DifficultyForLevel maps a 1..3 difficulty level to its label.
// Out-of-range levels map to beginner.
func DifficultyForLevel(level int) Difficulty {
	switch level {
	case 2:
		return DifficultyIntermediate
	case 3:
		return DifficultyAdvanced
	default:
		return DifficultyBeginner
	}
}

// QuestionType is the closed set of question formats.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionFillIn         QuestionType = "fill-in"
	QuestionListening      QuestionType = "listening"
	QuestionSpeaking       QuestionType = "speaking"
)

// Lesson is the top-level content document served to a learner.
type Lesson struct {
	LessonNames []string `json:"lessonNames"`
	Lessons     []Unit   `json:"lessons"`
}

// Unit is one coherent block of questions within a Lesson.
type Unit struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Question is a single prompt with its expected answer. Order within a unit
// is the presentation order.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	XPReward      int          `json:"xpReward"`
}

// QuestionCount returns the number of questions across all units.
func (l Lesson) QuestionCount() int {
	n := 0
	for _, u := range l.Lessons {
		n += len(u.Questions)
	}
	return n
}

// TotalXP returns the sum of question rewards across all units.
func (l Lesson) TotalXP() int {
	xp := 0
	for _, u := range l.Lessons {
		for _, q := range u.Questions {
			xp += q.XPReward
		}
	}
	return xp
}
