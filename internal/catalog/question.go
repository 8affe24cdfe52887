package catalog

import "strings"

// Type identifies how a question is answered and graded.
type Type string

const (
	TypeMultipleChoice Type = "multiple_choice"
	TypeMultipleAnswer Type = "multiple_answer"
	TypeComparison     Type = "quantitative_comparison"
	TypeNumeric        Type = "numeric_entry"
)

// AllTypes returns every question type in display order.
func AllTypes() []Type {
	return []Type{
		TypeComparison,
		TypeMultipleChoice,
		TypeMultipleAnswer,
		TypeNumeric,
	}
}

// TypeDisplayName returns a human-readable name for a question type.
func TypeDisplayName(t Type) string {
	switch t {
	case TypeMultipleChoice:
		return "Multiple Choice"
	case TypeMultipleAnswer:
		return "Multiple Answer"
	case TypeComparison:
		return "Quantitative Comparison"
	case TypeNumeric:
		return "Numeric Entry"
	default:
		return string(t)
	}
}

// ParseType maps a catalog type string, long name or short code, to a Type.
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple_choice", "mc":
		return TypeMultipleChoice, true
	case "multiple_answer", "ma":
		return TypeMultipleAnswer, true
	case "quantitative_comparison", "qc":
		return TypeComparison, true
	case "numeric_entry", "numeric":
		return TypeNumeric, true
	}
	return "", false
}

// Difficulty is a pre-assigned difficulty tag. It is informational only.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ComparisonOptions are the four fixed answer choices of every
// quantitative comparison question, in canonical order.
var ComparisonOptions = [4]string{
	"Quantity A is greater",
	"Quantity B is greater",
	"The two quantities are equal",
	"The relationship cannot be determined from the information given",
}

// AnswerKey is the canonical answer of a question. Which field is
// meaningful depends on the question type:
//   - multiple choice and comparison: Index
//   - multiple answer: Indices
//   - numeric entry: Value (decimal text, e.g. "10.5")
type AnswerKey struct {
	Index   int
	Indices []int
	Value   string
}

// Question is a single catalog entry. Questions are immutable once the
// catalog is built.
type Question struct {
	ID         int
	Type       Type
	Prompt     string
	QuantityA  string
	QuantityB  string
	Options    []string
	Correct    AnswerKey
	Difficulty Difficulty
	Topic      string
}
