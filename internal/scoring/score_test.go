package scoring

import (
	"math"
	"testing"

	"github.com/abhisek/quantprep/internal/catalog"
)

func TestScore_MultipleChoice(t *testing.T) {
	q := catalog.Question{
		Type:    catalog.TypeMultipleChoice,
		Options: []string{"A", "B", "C"},
		Correct: catalog.AnswerKey{Index: 1},
	}

	tests := []struct {
		name string
		in   Answer
		want bool
	}{
		{"correct", Text("B"), true},
		{"wrong", Text("A"), false},
		{"no answer", Answer{}, false},
		{"empty text", Text(""), false},
		{"case differs", Text("b"), false},
		{"list", MultiText("B"), false},
	}
	for _, tc := range tests {
		if got := Score(q, tc.in); got != tc.want {
			t.Errorf("%s: Score(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestScore_MultipleAnswer(t *testing.T) {
	q := catalog.Question{
		Type:    catalog.TypeMultipleAnswer,
		Options: []string{"A", "B", "C", "D"},
		Correct: catalog.AnswerKey{Indices: []int{0, 2}},
	}

	tests := []struct {
		name string
		in   Answer
		want bool
	}{
		{"exact", MultiText("A", "C"), true},
		{"reordered", MultiText("C", "A"), true},
		{"duplicates", MultiText("A", "C", "A"), true},
		{"partial", MultiText("A"), false},
		{"wrong", MultiText("A", "B"), false},
		{"superset", MultiText("A", "B", "C"), false},
		{"not a list", Text("A"), false},
		{"empty list", MultiText(), false},
	}
	for _, tc := range tests {
		if got := Score(q, tc.in); got != tc.want {
			t.Errorf("%s: Score(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestScore_Comparison(t *testing.T) {
	q := catalog.Question{
		Type:    catalog.TypeComparison,
		Options: catalog.ComparisonOptions[:],
		Correct: catalog.AnswerKey{Index: 0},
	}

	tests := []struct {
		in   Answer
		want bool
	}{
		{Text("Quantity A is greater"), true},
		{Text("Quantity B is greater"), false},
		{Text("Random String"), false},
		{Text("A"), false},
		{Number(0), false},
	}
	for _, tc := range tests {
		if got := Score(q, tc.in); got != tc.want {
			t.Errorf("Score(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScore_Numeric(t *testing.T) {
	q := catalog.Question{
		Type:    catalog.TypeNumeric,
		Correct: catalog.AnswerKey{Value: "10.5"},
	}

	tests := []struct {
		in   Answer
		want bool
	}{
		{Text("10.5"), true},
		{Text("10.50"), true},
		{Text(" 10.5 "), true},
		{Number(10.5), true},
		{Text("10.509"), true},
		{Text("10.6"), false},
		{Text("abc"), false},
		{Text(""), false},
		{Number(math.NaN()), false},
		{MultiText("10.5"), false},
	}
	for _, tc := range tests {
		if got := Score(q, tc.in); got != tc.want {
			t.Errorf("Score(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScore_NumericToleranceBoundary(t *testing.T) {
	q := catalog.Question{
		Type:    catalog.TypeNumeric,
		Correct: catalog.AnswerKey{Value: "10.50"},
	}

	if !Score(q, Text("10.5")) {
		t.Error("10.5 against 10.50 should be correct")
	}
	if Score(q, Text("10.51")) {
		t.Error("a difference of exactly 0.01 should be wrong")
	}
	if Score(q, Text("10.49")) {
		t.Error("a difference of exactly 0.01 below should be wrong")
	}
}

func TestScore_MalformedKeysFailClosed(t *testing.T) {
	tests := []struct {
		name string
		q    catalog.Question
		in   Answer
	}{
		{"mc index out of range", catalog.Question{Type: catalog.TypeMultipleChoice, Options: []string{"A"}, Correct: catalog.AnswerKey{Index: 3}}, Text("A")},
		{"mc no options", catalog.Question{Type: catalog.TypeMultipleChoice, Correct: catalog.AnswerKey{Index: 0}}, Text("A")},
		{"ma index out of range", catalog.Question{Type: catalog.TypeMultipleAnswer, Options: []string{"A"}, Correct: catalog.AnswerKey{Indices: []int{0, 7}}}, MultiText("A")},
		{"qc index out of range", catalog.Question{Type: catalog.TypeComparison, Correct: catalog.AnswerKey{Index: 9}}, Text("Quantity A is greater")},
		{"numeric key not a number", catalog.Question{Type: catalog.TypeNumeric, Correct: catalog.AnswerKey{Value: "ten"}}, Text("10")},
		{"unknown type", catalog.Question{Type: "essay"}, Text("anything")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if Score(tc.q, tc.in) {
				t.Error("malformed question scored as correct")
			}
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	q := catalog.Question{
		Type:    catalog.TypeMultipleAnswer,
		Options: []string{"A", "B", "C"},
		Correct: catalog.AnswerKey{Indices: []int{2, 0}},
	}
	a := MultiText("C", "A")
	first := Score(q, a)
	for i := 0; i < 5; i++ {
		if got := Score(q, a); got != first {
			t.Fatalf("call %d = %v, first call = %v", i, got, first)
		}
	}
	if !first {
		t.Error("expected correct")
	}
}

func TestFormatCorrect(t *testing.T) {
	tests := []struct {
		q    catalog.Question
		want string
	}{
		{catalog.Question{Type: catalog.TypeMultipleChoice, Options: []string{"x", "y"}, Correct: catalog.AnswerKey{Index: 1}}, "y"},
		{catalog.Question{Type: catalog.TypeMultipleAnswer, Options: []string{"x", "y", "z"}, Correct: catalog.AnswerKey{Indices: []int{0, 2}}}, "x, z"},
		{catalog.Question{Type: catalog.TypeComparison, Correct: catalog.AnswerKey{Index: 2}}, "The two quantities are equal"},
		{catalog.Question{Type: catalog.TypeNumeric, Correct: catalog.AnswerKey{Value: "3.25"}}, "3.25"},
		{catalog.Question{Type: catalog.TypeMultipleChoice, Correct: catalog.AnswerKey{Index: 4}}, "?"},
	}
	for _, tc := range tests {
		if got := FormatCorrect(tc.q); got != tc.want {
			t.Errorf("FormatCorrect(%s) = %q, want %q", tc.q.Type, got, tc.want)
		}
	}
}

func TestFormatAnswer(t *testing.T) {
	if got := FormatAnswer(Answer{}); got != "(no answer)" {
		t.Errorf("FormatAnswer(empty) = %q", got)
	}
	if got := FormatAnswer(MultiText("a", "b")); got != "a, b" {
		t.Errorf("FormatAnswer(multi) = %q", got)
	}
	if got := FormatAnswer(Number(2.5)); got != "2.5" {
		t.Errorf("FormatAnswer(number) = %q", got)
	}
}
