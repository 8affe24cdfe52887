package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind tags the shape of a submitted answer.
type Kind int

const (
	KindNone  Kind = iota // No answer given
	KindText              // A single string (choice text, comparison text or typed number)
	KindMulti             // A list of strings (multiple answer)
	KindNumber            // A numeric value
)

// Answer is a learner's submitted answer. The zero value means unanswered.
type Answer struct {
	kind  Kind
	text  string
	multi []string
	num   float64
}

// Text returns a single-string answer.
func Text(s string) Answer {
	return Answer{kind: KindText, text: s}
}

// MultiText returns a list answer. Order and duplicates are preserved here;
// scoring treats the list as a set.
func MultiText(items ...string) Answer {
	return Answer{kind: KindMulti, multi: slices.Clone(items)}
}

// Number returns a numeric answer.
func Number(f float64) Answer {
	return Answer{kind: KindNumber, num: f}
}

// Kind reports which shape the answer has.
func (a Answer) Kind() Kind {
	return a.kind
}

// IsEmpty reports whether the answer counts as unanswered: no value, an
// empty string, or an empty list.
func (a Answer) IsEmpty() bool {
	switch a.kind {
	case KindText:
		return a.text == ""
	case KindMulti:
		return len(a.multi) == 0
	case KindNumber:
		return false
	default:
		return true
	}
}

// Strings returns the answer's string items: the list for a multi answer,
// a one-element slice for text and numbers, nil when unanswered.
func (a Answer) Strings() []string {
	switch a.kind {
	case KindText:
		return []string{a.text}
	case KindMulti:
		return slices.Clone(a.multi)
	case KindNumber:
		return []string{formatFloat(a.num)}
	default:
		return nil
	}
}

// String renders the answer for display.
func (a Answer) String() string {
	return strings.Join(a.Strings(), ", ")
}

// Equal reports whether two answers have the same shape and value.
func (a Answer) Equal(b Answer) bool {
	return a.kind == b.kind && a.text == b.text && a.num == b.num && slices.Equal(a.multi, b.multi)
}

// MarshalJSON encodes text as a JSON string, a multi answer as an array of
// strings, a number as a JSON number and an empty answer as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case KindText:
		return json.Marshal(a.text)
	case KindMulti:
		if a.multi == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.multi)
	case KindNumber:
		return json.Marshal(a.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Text(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("multi answer must be a list of strings: %w", err)
		}
		*a = Answer{kind: KindMulti, multi: items}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("answer must be a string, list or number: %w", err)
		}
		*a = Number(f)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
