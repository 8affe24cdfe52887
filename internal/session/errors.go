package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned by Start for an unknown format key.
	ErrInvalidFormat = errors.New("invalid test format")

	// ErrNoActiveSession is returned when the learner has no test in progress.
	ErrNoActiveSession = errors.New("no active test")

	// ErrUnknownQuestion is returned when an answer names a question that is
	// not part of the active test.
	ErrUnknownQuestion = errors.New("question is not part of this test")

	// ErrTimeExpired is returned by SubmitAnswer after the time limit when
	// time limits are enforced.
	ErrTimeExpired = errors.New("time limit expired")
)

// PersistenceError reports that progress could not be stored. The
// operation's in-memory result is still valid and is returned alongside it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
