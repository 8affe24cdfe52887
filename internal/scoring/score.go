// Package scoring grades submitted answers against catalog questions.
//
// Scoring fails closed: malformed keys, unparsable numbers and answers of
// the wrong shape all grade as incorrect. Nothing here returns an error or
// panics, so one bad catalog entry cannot abort a whole test submission.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/quantprep/internal/catalog"
)

// Tolerance is the absolute difference below which a numeric entry is
// accepted. A difference of exactly Tolerance is wrong.
const Tolerance = 0.01

// Score reports whether answer a is correct for question q.
func Score(q catalog.Question, a Answer) bool {
	if a.IsEmpty() {
		return false
	}

	switch q.Type {
	case catalog.TypeMultipleChoice:
		return scoreMultipleChoice(q, a)
	case catalog.TypeMultipleAnswer:
		return scoreMultipleAnswer(q, a)
	case catalog.TypeComparison:
		return scoreComparison(q, a)
	case catalog.TypeNumeric:
		return scoreNumeric(q, a)
	default:
		return false
	}
}

// scoreMultipleChoice requires the exact text of the keyed option.
func scoreMultipleChoice(q catalog.Question, a Answer) bool {
	if a.Kind() != KindText {
		return false
	}
	want, ok := optionAt(q.Options, q.Correct.Index)
	if !ok {
		return false
	}
	return a.text == want
}

// scoreMultipleAnswer compares the submitted strings and the keyed option
// texts as sets.
func scoreMultipleAnswer(q catalog.Question, a Answer) bool {
	if a.Kind() != KindMulti {
		return false
	}
	want := make(map[string]struct{}, len(q.Correct.Indices))
	for _, i := range q.Correct.Indices {
		opt, ok := optionAt(q.Options, i)
		if !ok {
			return false
		}
		want[opt] = struct{}{}
	}
	got := make(map[string]struct{}, len(a.multi))
	for _, s := range a.multi {
		got[s] = struct{}{}
	}
	return setEqual(want, got)
}

// scoreComparison matches the canonical comparison text by value. Letter
// codes are resolved when the catalog is loaded, not here.
func scoreComparison(q catalog.Question, a Answer) bool {
	if a.Kind() != KindText {
		return false
	}
	i := q.Correct.Index
	if i < 0 || i >= len(catalog.ComparisonOptions) {
		return false
	}
	return a.text == catalog.ComparisonOptions[i]
}

// scoreNumeric accepts answers within Tolerance of the key.
func scoreNumeric(q catalog.Question, a Answer) bool {
	var user float64
	switch a.Kind() {
	case KindNumber:
		user = a.num
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
		if err != nil {
			return false
		}
		user = f
	default:
		return false
	}

	key, err := strconv.ParseFloat(strings.TrimSpace(q.Correct.Value), 64)
	if err != nil {
		return false
	}
	return withinTolerance(user, key)
}

// withinTolerance quantizes the difference to nanounits first so that
// 10.51 against 10.50 lands on the boundary instead of just under it.
// NaN compares false, so NaN on either side grades as wrong.
func withinTolerance(user, key float64) bool {
	const scale = 1e9
	diff := math.Round(math.Abs(user-key) * scale)
	return diff < Tolerance*scale
}

func optionAt(options []string, i int) (string, bool) {
	if i < 0 || i >= len(options) {
		return "", false
	}
	return options[i], true
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
