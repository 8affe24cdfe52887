// Package progress holds a learner's long-lived practice state: which
// questions have been served and the rolling log of test results.
package progress

import (
	"fmt"
	"slices"
	"strings"
)

// AttemptedSet is the set of question ids a learner has been served.
// The zero value is an empty set ready to use.
type AttemptedSet struct {
	ids map[int]struct{}
}

// NewAttemptedSet returns a set holding ids.
func NewAttemptedSet(ids ...int) AttemptedSet {
	s := AttemptedSet{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s *AttemptedSet) Add(id int) {
	if s.ids == nil {
		s.ids = make(map[int]struct{})
	}
	s.ids[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s AttemptedSet) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids in the set.
func (s AttemptedSet) Len() int {
	return len(s.ids)
}

// IDs returns the ids in ascending order.
func (s AttemptedSet) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Union returns a new set holding s and ids. s is not modified.
func (s AttemptedSet) Union(ids ...int) AttemptedSet {
	out := s.Clone()
	for _, id := range ids {
		out.Add(id)
	}
	return out
}

// Clone returns an independent copy of s.
func (s AttemptedSet) Clone() AttemptedSet {
	out := AttemptedSet{ids: make(map[int]struct{}, len(s.ids))}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// EncodeBitmap renders the set as a string of '0' and '1' where the
// character at position k stands for id k+1. The string is at least
// size characters long. Ids below 1 cannot be represented and are dropped.
func (s AttemptedSet) EncodeBitmap(size int) string {
	n := size
	for id := range s.ids {
		n = max(n, id)
	}
	if n <= 0 {
		return ""
	}
	buf := []byte(strings.Repeat("0", n))
	for id := range s.ids {
		if id >= 1 {
			buf[id-1] = '1'
		}
	}
	return string(buf)
}

// DecodeBitmap parses a string produced by EncodeBitmap.
func DecodeBitmap(bitmap string) (AttemptedSet, error) {
	s := AttemptedSet{ids: make(map[int]struct{})}
	for k, c := range bitmap {
		switch c {
		case '1':
			s.ids[k+1] = struct{}{}
		case '0':
		default:
			return AttemptedSet{}, fmt.Errorf("invalid bitmap character %q at position %d", c, k)
		}
	}
	return s, nil
}
