package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidationError lists every structural problem found in a question set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Problems, "; "))
}

// validateQuestions performs all structural checks on the given questions.
// Returns a *ValidationError describing all problems found, or nil if valid.
func validateQuestions(questions []Question) error {
	var errs []string

	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if q.ID <= 0 {
			errs = append(errs, fmt.Sprintf("question id %d is not positive", q.ID))
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id: %d", q.ID))
		}
		seen[q.ID] = true

		if !q.Difficulty.valid() {
			errs = append(errs, fmt.Sprintf("question %d has unknown difficulty %q", q.ID, q.Difficulty))
		}
		if msg := checkAnswerKey(q); msg != "" {
			errs = append(errs, fmt.Sprintf("question %d: %s", q.ID, msg))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

// checkAnswerKey verifies that the answer key fits the question type and
// that every referenced index is a valid index into Options.
func checkAnswerKey(q Question) string {
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) == 0 {
			return "multiple choice question has no options"
		}
		if !inRange(q.Correct.Index, len(q.Options)) {
			return fmt.Sprintf("correct index %d out of range for %d options", q.Correct.Index, len(q.Options))
		}
	case TypeMultipleAnswer:
		if len(q.Options) == 0 {
			return "multiple answer question has no options"
		}
		if len(q.Correct.Indices) == 0 {
			return "multiple answer question has no correct indices"
		}
		for _, i := range q.Correct.Indices {
			if !inRange(i, len(q.Options)) {
				return fmt.Sprintf("correct index %d out of range for %d options", i, len(q.Options))
			}
		}
	case TypeComparison:
		if !inRange(q.Correct.Index, len(ComparisonOptions)) {
			return fmt.Sprintf("comparison index %d out of range 0-3", q.Correct.Index)
		}
		if len(q.Options) > 0 && !slices.Equal(q.Options, ComparisonOptions[:]) {
			return "comparison options must be the four standard choices"
		}
	case TypeNumeric:
		if _, err := strconv.ParseFloat(strings.TrimSpace(q.Correct.Value), 64); err != nil {
			return fmt.Sprintf("numeric answer %q is not a number", q.Correct.Value)
		}
	default:
		return fmt.Sprintf("unknown question type %q", q.Type)
	}
	return ""
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
