package scoring

import (
	"strings"

	"github.com/abhisek/quantprep/internal/catalog"
)

// FormatCorrect renders the canonical answer of q for display. Keys that
// do not resolve to an option render as "?".
func FormatCorrect(q catalog.Question) string {
	switch q.Type {
	case catalog.TypeMultipleChoice:
		if opt, ok := optionAt(q.Options, q.Correct.Index); ok {
			return opt
		}
	case catalog.TypeMultipleAnswer:
		parts := make([]string, 0, len(q.Correct.Indices))
		for _, i := range q.Correct.Indices {
			opt, ok := optionAt(q.Options, i)
			if !ok {
				return "?"
			}
			parts = append(parts, opt)
		}
		return strings.Join(parts, ", ")
	case catalog.TypeComparison:
		if i := q.Correct.Index; i >= 0 && i < len(catalog.ComparisonOptions) {
			return catalog.ComparisonOptions[i]
		}
	case catalog.TypeNumeric:
		if q.Correct.Value != "" {
			return q.Correct.Value
		}
	}
	return "?"
}

// FormatAnswer renders a submitted answer for display.
func FormatAnswer(a Answer) string {
	if a.IsEmpty() {
		return "(no answer)"
	}
	return a.String()
}
