package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// record is the on-disk shape of one catalog entry.
type record struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Question   string          `json:"question"`
	QuantityA  string          `json:"quantity_a"`
	QuantityB  string          `json:"quantity_b"`
	Options    []string        `json:"options"`
	Correct    json.RawMessage `json:"correct"`
	Difficulty string          `json:"difficulty"`
	Topic      string          `json:"topic"`
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw catalog JSON against the catalog schema, normalizes
// every entry and builds the catalog.
//
// Normalization rules:
//   - type short codes (mc, ma, qc, numeric) map to the long names
//   - difficulty is case-folded; a missing difficulty means medium
//   - comparison questions without options get ComparisonOptions
//   - comparison keys may be given as letters A-D or as the canonical text
//   - numeric keys may be given as JSON numbers or strings
//   - a multiple answer key given as a single index becomes a one-element list
func Parse(data []byte) (*Catalog, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	questions := make([]Question, 0, len(records))
	var errs []string
	for _, r := range records {
		q, err := r.normalize()
		if err != nil {
			errs = append(errs, fmt.Sprintf("question %d: %v", r.ID, err))
			continue
		}
		questions = append(questions, q)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Problems: errs}
	}
	return New(questions)
}

func (r record) normalize() (Question, error) {
	t, ok := ParseType(r.Type)
	if !ok {
		return Question{}, fmt.Errorf("unknown type %q", r.Type)
	}

	diff := Difficulty(strings.ToLower(strings.TrimSpace(r.Difficulty)))
	if diff == "" {
		diff = DifficultyMedium
	}

	q := Question{
		ID:         r.ID,
		Type:       t,
		Prompt:     r.Question,
		QuantityA:  r.QuantityA,
		QuantityB:  r.QuantityB,
		Options:    r.Options,
		Difficulty: diff,
		Topic:      r.Topic,
	}

	var err error
	switch t {
	case TypeMultipleChoice:
		q.Correct.Index, err = decodeIndex(r.Correct)
	case TypeMultipleAnswer:
		q.Correct.Indices, err = decodeIndices(r.Correct)
	case TypeComparison:
		// Scoring matches the canonical wording, so file-supplied labels
		// are replaced.
		q.Options = ComparisonOptions[:]
		q.Correct.Index, err = decodeComparison(r.Correct)
	case TypeNumeric:
		q.Correct.Value, err = decodeNumeric(r.Correct)
	}
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func decodeIndex(raw json.RawMessage) (int, error) {
	var i int
	if err := json.Unmarshal(raw, &i); err != nil {
		return 0, fmt.Errorf("correct must be an option index: %w", err)
	}
	return i, nil
}

func decodeIndices(raw json.RawMessage) ([]int, error) {
	var list []int
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	i, err := decodeIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("correct must be a list of option indices")
	}
	return []int{i}, nil
}

func decodeComparison(raw json.RawMessage) (int, error) {
	var i int
	if err := json.Unmarshal(raw, &i); err == nil {
		return i, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("correct must be an index, a letter A-D or a comparison option")
	}
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		letter := strings.ToUpper(s)[0]
		if letter >= 'A' && letter <= 'D' {
			return int(letter - 'A'), nil
		}
	}
	for idx, opt := range ComparisonOptions {
		if strings.EqualFold(s, opt) {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("unrecognized comparison answer %q", s)
}

func decodeNumeric(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("correct must be a number")
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", fmt.Errorf("correct must be a number: %w", err)
	}
	return n.String(), nil
}
