// Package activity implements the activity chat agent (a tool-calling
// conversation loop that coaches the user through a learning activity),
// activity generation from profiles and concept lists, and activity
// persistence.
package activity

// Level categorizes activity difficulty.
type Level string

// Activity levels.
const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid reports whether the level is a known value.
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Background introduces the concepts an activity teaches.
type Background struct {
	// Concepts are the key financial terms introduced in the activity,
	// short phrases such as "budgeting" or "compound interest".
	Concepts []string `json:"concepts"`

	// Content is a user-friendly teaching explanation covering each
	// concept, tailored to the user's situation.
	Content string `json:"content"`
}

// Step is one sequential, actionable part of an activity.
type Step struct {
	// Index is the step number, starting from 1.
	Index int `json:"index"`

	Title   string `json:"title"`
	Content string `json:"content"`

	// StepObjective states what the user achieves by completing the step.
	StepObjective string `json:"step_objective"`
}

// Activity is a structured, step-by-step learning activity.
type Activity struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	OverallObjective string            `json:"overall_objective"`
	Background       Background        `json:"background"`
	Steps            []Step            `json:"steps"`
	Glossary         map[string]string `json:"glossary,omitempty"`

	// AlternativeMethods suggests non-technical ways to complete the
	// activity.
	AlternativeMethods []string `json:"alternative_methods,omitempty"`

	Level Level `json:"level"`
}

// Activities is a generated set of activities.
type Activities struct {
	Activities []Activity `json:"activities"`
}
