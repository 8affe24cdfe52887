package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNotFound is returned by Get when no question has the requested id.
var ErrNotFound = errors.New("question not found")

// ErrEmpty is returned when a catalog would contain no questions.
var ErrEmpty = errors.New("catalog has no questions")

// Catalog is the immutable set of practice questions with precomputed
// indices. Build one with New, Parse or Load and share it by pointer.
type Catalog struct {
	questions []Question
	byID      map[int]int
	byType    map[Type][]int
	maxID     int
}

// New validates the questions and builds a catalog from them. The slice is
// copied; later changes by the caller do not affect the catalog.
func New(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, ErrEmpty
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	c := &Catalog{
		questions: make([]Question, len(questions)),
		byID:      make(map[int]int, len(questions)),
		byType:    make(map[Type][]int),
	}
	for i, q := range questions {
		q.Options = slices.Clone(q.Options)
		if q.Type == TypeComparison && len(q.Options) == 0 {
			q.Options = slices.Clone(ComparisonOptions[:])
		}
		q.Correct.Indices = slices.Clone(q.Correct.Indices)
		c.questions[i] = q
		c.byID[q.ID] = i
		c.byType[q.Type] = append(c.byType[q.Type], i)
		if q.ID > c.maxID {
			c.maxID = q.ID
		}
	}
	return c, nil
}

// Get returns the question with the given id.
func (c *Catalog) Get(id int) (Question, error) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c.questions[i].clone(), nil
}

// Has reports whether the catalog contains a question with the given id.
func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every question in catalog order. The order is stable for
// the lifetime of the catalog.
func (c *Catalog) All() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// ByType returns the questions of one type in catalog order.
func (c *Catalog) ByType(t Type) []Question {
	idx := c.byType[t]
	out := make([]Question, len(idx))
	for i, j := range idx {
		out[i] = c.questions[j].clone()
	}
	return out
}

// CountByType returns how many questions of each type the catalog holds.
func (c *Catalog) CountByType() map[Type]int {
	counts := make(map[Type]int, len(c.byType))
	for t, idx := range c.byType {
		counts[t] = len(idx)
	}
	return counts
}

// Types returns the question types present in the catalog, in AllTypes
// order.
func (c *Catalog) Types() []Type {
	var out []Type
	for _, t := range AllTypes() {
		if len(c.byType[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// MaxID returns the largest question id.
func (c *Catalog) MaxID() int {
	return c.maxID
}

func (q Question) clone() Question {
	q.Options = slices.Clone(q.Options)
	q.Correct.Indices = slices.Clone(q.Correct.Indices)
	return q
}
