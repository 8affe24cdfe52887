package store

import (
	"time"

	"github.com/abhisek/quantprep/internal/scoring"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ActiveSession is the stored form of a learner's in-progress test.
type ActiveSession struct {
	ID          string
	UserID      string
	Format      string
	QuestionIDs []int
	StartTime   time.Time
	TimeLimit   time.Duration
	Answers     map[string]scoring.Answer
}

// Session event actions.
const (
	ActionStart  = "start"
	ActionSubmit = "submit"
	ActionReset  = "reset"
)

// SessionEventData captures one test lifecycle event.
type SessionEventData struct {
	SessionID       string
	UserID          string
	Action          string
	Format          string
	QuestionsServed int
	CorrectAnswers  int
	Accuracy        float64
	DurationSecs    int
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}
