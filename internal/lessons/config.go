package lessons

// Config holds lesson synthesis settings.
type Config struct {
	PersonalizedMaxTokens int
	AssessmentMaxTokens   int
	Temperature           float64

	// RawLogLimit caps how much rejected model output is logged.
	RawLogLimit int
}

// DefaultConfig returns the generation budgets for lessons. The assessment
// holds ten questions and gets the larger budget.
func DefaultConfig() Config {
	return Config{
		PersonalizedMaxTokens: 2048,
		AssessmentMaxTokens:   3072,
		Temperature:           0.4,
		RawLogLimit:           512,
	}
}
