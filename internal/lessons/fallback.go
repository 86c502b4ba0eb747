package lessons

import (
	"fmt"
	"strings"
)

// AssessmentVersion identifies the revision of the fixed assessment content.
// Bump it whenever FallbackAssessment changes.
const AssessmentVersion = 2

// FallbackLesson returns an offline lesson for topic. The result depends
// only on its arguments and always passes ValidateLesson.
func FallbackLesson(topic string, level int) Lesson {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = string(TypeGrammar)
	}

	return Lesson{
		LessonNames: []string{
			topic + " Basics",
			topic + " Practice",
			topic + " Mastery",
		},
		Lessons: []Unit{
			{
				ID:          fmt.Sprintf("lesson-%s-%d", slug(topic), level),
				Title:       topic + " Fundamentals",
				Topic:       topic,
				Difficulty:  DifficultyForLevel(level),
				Description: "Learn the fundamentals of " + topic,
				Questions: []Question{
					{
						ID:            "q1",
						Type:          QuestionMultipleChoice,
						Question:      fmt.Sprintf("Which is the correct example of %s?", topic),
						Options:       []string{"Example A", "Example B", "Example C", "Example D"},
						CorrectAnswer: "Example A",
						Explanation:   fmt.Sprintf("Example A demonstrates proper %s usage.", topic),
						XPReward:      20,
					},
					{
						ID:            "q2",
						Type:          QuestionFillIn,
						Question:      fmt.Sprintf("Complete: \"The _____ way to use %s is...\"", topic),
						Options:       []string{"correct", "best", "proper", "right"},
						CorrectAnswer: "correct",
						Explanation:   "The correct way is the most accurate description.",
						XPReward:      15,
					},
					{
						ID:            "q3",
						Type:          QuestionMultipleChoice,
						Question:      fmt.Sprintf("What is a common mistake in %s?", topic),
						Options:       []string{"Mistake A", "Mistake B", "Mistake C", "Mistake D"},
						CorrectAnswer: "Mistake A",
						Explanation:   "Mistake A is a common error to avoid.",
						XPReward:      20,
					},
					{
						ID:            "q4",
						Type:          QuestionFillIn,
						Question:      fmt.Sprintf("Fill in the blank: \"When using %s, always remember to _____\"", topic),
						Options:       []string{"practice", "study", "focus", "learn"},
						CorrectAnswer: "practice",
						Explanation:   "Practice is essential for mastering any skill.",
						XPReward:      15,
					},
				},
			},
		},
	}
}

// FallbackAssessment returns the fixed ten-question placement probe.
func FallbackAssessment() Lesson {
	return Lesson{
		LessonNames: []string{"Grammar", "Vocabulary", "Writing", "Speaking", "Listening"},
		Lessons: []Unit{
			{
				ID:          "assessment-1",
				Title:       "English Proficiency Assessment",
				Topic:       string(TypeAssessment),
				Difficulty:  DifficultyBeginner,
				Description: "Assess your current English proficiency level",
				Questions: []Question{
					assessmentQuestion("a1", QuestionMultipleChoice,
						`What is the past tense of "go"?`,
						[]string{"goes", "went", "going", "gone"}, "went",
						`The past tense of "go" is "went".`),
					assessmentQuestion("a2", QuestionMultipleChoice,
						`Which word means "very happy"?`,
						[]string{"sad", "angry", "delighted", "tired"}, "delighted",
						`"Delighted" means very happy or pleased.`),
					assessmentQuestion("a3", QuestionFillIn,
						`Complete: "She _____ to the store yesterday."`,
						[]string{"go", "goes", "went", "going"}, "went",
						"Use past tense 'went' for actions that already happened."),
					assessmentQuestion("a4", QuestionMultipleChoice,
						"Which sentence is correct?",
						[]string{"He don't like pizza", "He doesn't like pizza", "He not like pizza", "He no like pizza"},
						"He doesn't like pizza",
						"Use 'doesn't' with third person singular (he/she/it)."),
					assessmentQuestion("a5", QuestionFillIn,
						`Complete: "I have _____ to Paris three times."`,
						[]string{"go", "goes", "been", "going"}, "been",
						"Use 'been' with 'have' for past experiences."),
					assessmentQuestion("a6", QuestionMultipleChoice,
						"What is the plural of 'child'?",
						[]string{"childs", "children", "childes", "childer"}, "children",
						`"Children" is the irregular plural of "child".`),
					assessmentQuestion("a7", QuestionFillIn,
						`Complete: "If I _____ you were coming, I would have prepared."`,
						[]string{"knew", "know", "had known", "would know"}, "had known",
						"Use past perfect 'had known' in conditional sentences."),
					assessmentQuestion("a8", QuestionMultipleChoice,
						"Which word is spelled correctly?",
						[]string{"recieve", "receive", "recive", "receeve"}, "receive",
						`"Receive" is spelled with "ei" not "ie".`),
					assessmentQuestion("a9", QuestionFillIn,
						`Complete: "She is _____ than her sister."`,
						[]string{"tall", "taller", "tallest", "more tall"}, "taller",
						"Use comparative form 'taller' when comparing two people."),
					assessmentQuestion("a10", QuestionMultipleChoice,
						"What does 'procrastinate' mean?",
						[]string{"To plan ahead", "To delay or postpone", "To work quickly", "To organize"},
						"To delay or postpone",
						`"Procrastinate" means to delay or put off doing something.`),
				},
			},
		},
	}
}

// assessmentXP is the fixed reward for every assessment question.
const assessmentXP = 10

func assessmentQuestion(id string, typ QuestionType, text string, options []string, answer, explanation string) Question {
	return Question{
		ID:            id,
		Type:          typ,
		Question:      text,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   explanation,
		XPReward:      assessmentXP,
	}
}

// slug lowercases s and joins its words with dashes.
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
