package session

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/abhisek/quantprep/internal/scoring"
)

// TestSession is one learner's in-progress timed test. A learner has at
// most one; starting a new test discards the previous one.
type TestSession struct {
	ID          string
	UserID      string
	Format      string
	QuestionIDs []int
	StartTime   time.Time
	TimeLimit   time.Duration

	// Answers is keyed by the decimal question id.
	Answers map[string]scoring.Answer
}

// answerKey is the Answers map key for a question id.
func answerKey(id int) string {
	return strconv.Itoa(id)
}

// Deadline returns when the time limit runs out.
func (s *TestSession) Deadline() time.Time {
	return s.StartTime.Add(s.TimeLimit)
}

// Remaining returns the time left at now, never negative. It is
// truncated to whole seconds.
func (s *TestSession) Remaining(now time.Time) time.Duration {
	left := s.Deadline().Sub(now).Truncate(time.Second)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the time limit has run out at now.
func (s *TestSession) Expired(now time.Time) bool {
	return !now.Before(s.Deadline())
}

// Elapsed returns the time since the test started, capped at zero.
func (s *TestSession) Elapsed(now time.Time) time.Duration {
	return max(0, now.Sub(s.StartTime))
}

// Contains reports whether id is one of the test's questions.
func (s *TestSession) Contains(id int) bool {
	return slices.Contains(s.QuestionIDs, id)
}

// Answer returns the stored answer for id.
func (s *TestSession) Answer(id int) (scoring.Answer, bool) {
	a, ok := s.Answers[answerKey(id)]
	return a, ok
}

// SetAnswer stores a for id, replacing any earlier answer. An empty answer
// clears it.
func (s *TestSession) SetAnswer(id int, a scoring.Answer) {
	if a.IsEmpty() {
		delete(s.Answers, answerKey(id))
		return
	}
	if s.Answers == nil {
		s.Answers = make(map[string]scoring.Answer)
	}
	s.Answers[answerKey(id)] = a
}

// AnsweredCount returns how many of the test's questions have an answer.
func (s *TestSession) AnsweredCount() int {
	n := 0
	for _, id := range s.QuestionIDs {
		if a, ok := s.Answer(id); ok && !a.IsEmpty() {
			n++
		}
	}
	return n
}

// Position returns the 1-based position of id in the test, or 0.
func (s *TestSession) Position(id int) int {
	return slices.Index(s.QuestionIDs, id) + 1
}

// Clone returns a deep copy of s.
func (s *TestSession) Clone() *TestSession {
	c := *s
	c.QuestionIDs = slices.Clone(s.QuestionIDs)
	c.Answers = maps.Clone(s.Answers)
	return &c
}
