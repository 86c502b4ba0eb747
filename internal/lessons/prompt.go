package lessons

import (
	"fmt"
	"strings"
)

const lessonSystemPrompt = `You are an English teacher writing short, gamified lessons for language learners. You answer with a single JSON document and nothing else.`

const lessonShapeExample = `{
  "lessonNames": ["Topic 1", "Topic 2", "Topic 3"],
  "lessons": [{
    "id": "lesson-1",
    "title": "Lesson Title",
    "topic": "%s",
    "difficulty": "%s",
    "description": "Description",
    "questions": [{
      "id": "q1",
      "type": "multiple-choice",
      "question": "Question text?",
      "options": ["A", "B", "C", "D"],
      "correctAnswer": "A",
      "explanation": "Explanation",
      "xpReward": %d
    }]
  }]
}`

func buildPersonalizedUserMessage(t Type, difficulty Difficulty, seed int64) string {
	var b strings.Builder

	b.WriteString("Generate a personalized English learning lesson in JSON format.\n\n")
	b.WriteString(fmt.Sprintf("Lesson Type: %s\n", t))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	b.WriteString(fmt.Sprintf("Seed: %d\n", seed))

	b.WriteString(fmt.Sprintf(`
Create a lesson with:
1. lessonNames: array of 3-5 topic titles related to %s
2. lessons: array with 1 lesson containing 4-5 questions
3. Mix of question types: multiple-choice, fill-in, listening, speaking
4. Multiple-choice questions have at least 2 distinct options and the correctAnswer is one of them
5. XP rewards: 10-50 points per question
6. Clear explanations for correct answers

Return ONLY valid JSON (no markdown, no extra text):
`, t))
	b.WriteString(fmt.Sprintf(lessonShapeExample, t, difficulty, 20))

	return b.String()
}

func buildAssessmentUserMessage() string {
	var b strings.Builder

	b.WriteString(`Generate an English proficiency assessment lesson in JSON format.

Create an assessment with:
1. lessonNames: ["Grammar", "Vocabulary", "Writing", "Speaking", "Listening"]
2. lessons: array with 1 lesson containing 10 questions
3. Questions covering all skill areas
4. Mix of all question types
5. Each question worth 10 XP
6. Questions designed to identify weaknesses

Return ONLY valid JSON (no markdown, no extra text):
`)
	b.WriteString(fmt.Sprintf(lessonShapeExample, TypeAssessment, DifficultyBeginner, 10))

	return b.String()
}
