// Package session runs timed practice tests: it selects questions, tracks
// answers while a test is active and grades the test on submit.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/progress"
	"github.com/abhisek/quantprep/internal/scoring"
	"github.com/abhisek/quantprep/internal/selection"
	"github.com/abhisek/quantprep/internal/store"
)

// ProgressStore loads and saves a learner's attempted set and history.
// Load returns empty values for an unknown learner.
type ProgressStore interface {
	Load(ctx context.Context, userID string) (progress.AttemptedSet, progress.History, error)
	Save(ctx context.Context, userID string, attempted progress.AttemptedSet, history progress.History) error
}

// SessionStore keeps at most one active test per learner. LoadActive
// returns nil, nil when there is none.
type SessionStore interface {
	LoadActive(ctx context.Context, userID string) (*store.ActiveSession, error)
	SaveActive(ctx context.Context, s *store.ActiveSession) error
	DeleteActive(ctx context.Context, userID string) error
}

// EventLog records test lifecycle events.
type EventLog interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Options configures a Service. Catalog, Progress and Sessions are
// required; everything else has a default.
type Options struct {
	Catalog  *catalog.Catalog
	Progress ProgressStore
	Sessions SessionStore
	Events   EventLog

	Selector     selection.Selector
	Distribution selection.Distribution
	Formats      map[string]Format

	// Now defaults to time.Now.
	Now func() time.Time

	// NewID generates test ids. Defaults to uuid.NewString.
	NewID func() string

	// EnforceTimeLimit rejects answers submitted after the deadline.
	EnforceTimeLimit bool

	// Warnings receives non-fatal problems. Defaults to os.Stderr.
	Warnings io.Writer
}

// Service coordinates the catalog, selection, scoring and the stores.
// It is safe for concurrent use; calls for the same learner are serialized.
type Service struct {
	cat      *catalog.Catalog
	progress ProgressStore
	sessions SessionStore
	events   EventLog

	selector selection.Selector
	dist     selection.Distribution
	formats  map[string]Format

	now      func() time.Time
	newID    func() string
	enforce  bool
	warnings io.Writer

	locks userLocks
}

// StartResult describes a newly started test.
type StartResult struct {
	Session *TestSession

	// Exhausted is set when repeats had to be included.
	Exhausted bool

	// Available is how many unseen questions existed before this test.
	Available int
}

// NewService creates a Service from opts.
func NewService(opts Options) (*Service, error) {
	if opts.Catalog == nil {
		return nil, errors.New("session: catalog is required")
	}
	if opts.Progress == nil || opts.Sessions == nil {
		return nil, errors.New("session: progress and session stores are required")
	}

	s := &Service{
		cat:      opts.Catalog,
		progress: opts.Progress,
		sessions: opts.Sessions,
		events:   opts.Events,
		selector: opts.Selector,
		dist:     opts.Distribution,
		formats:  opts.Formats,
		now:      opts.Now,
		newID:    opts.NewID,
		enforce:  opts.EnforceTimeLimit,
		warnings: opts.Warnings,
	}
	if s.selector == nil {
		s.selector = selection.NewRandomSelector(nil)
	}
	if s.dist == nil {
		s.dist = selection.DefaultDistribution
	}
	if s.formats == nil {
		s.formats = DefaultFormats
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.warnings == nil {
		s.warnings = os.Stderr
	}
	return s, nil
}

// Catalog returns the catalog the service draws from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.cat
}

// Formats returns the known test formats.
func (s *Service) Formats() map[string]Format {
	return s.formats
}

// Start begins a new test in the given format, discarding any test the
// learner already had in progress. The selected questions are marked
// attempted immediately, so an abandoned test still uses them up.
//
// If the attempted set cannot be saved the test still starts and a
// *PersistenceError is returned with the result.
func (s *Service) Start(ctx context.Context, userID, formatKey string) (*StartResult, error) {
	f, ok := s.formats[formatKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, formatKey)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	attempted, history, err := s.progress.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	sel := s.selector.Select(f.Questions, s.dist, s.cat, attempted)
	ts := &TestSession{
		ID:          s.newID(),
		UserID:      userID,
		Format:      f.Key,
		QuestionIDs: sel.IDs(),
		StartTime:   s.now(),
		TimeLimit:   f.TimeLimit,
		Answers:     make(map[string]scoring.Answer),
	}

	if err := s.sessions.SaveActive(ctx, toActive(ts)); err != nil {
		return nil, fmt.Errorf("save active test: %w", err)
	}

	res := &StartResult{Session: ts, Exhausted: sel.Exhausted, Available: sel.Available}

	var saveErr error
	if err := s.progress.Save(ctx, userID, attempted.Union(ts.QuestionIDs...), history); err != nil {
		saveErr = &PersistenceError{Op: "save attempted questions", Err: err}
	}

	s.logEvent(ctx, store.SessionEventData{
		SessionID:       ts.ID,
		UserID:          userID,
		Action:          store.ActionStart,
		Format:          f.Key,
		QuestionsServed: len(ts.QuestionIDs),
	})
	return res, saveErr
}

// Active returns the learner's test in progress.
func (s *Service) Active(ctx context.Context, userID string) (*TestSession, error) {
	unlock := s.locks.lock(userID)
	defer unlock()
	return s.loadActive(ctx, userID)
}

// SubmitAnswer records an answer for one question of the active test.
// An empty answer clears any earlier one.
func (s *Service) SubmitAnswer(ctx context.Context, userID string, questionID int, answer scoring.Answer) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	ts, err := s.loadActive(ctx, userID)
	if err != nil {
		return err
	}
	if !ts.Contains(questionID) {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if s.enforce && ts.Expired(s.now()) {
		return ErrTimeExpired
	}

	ts.SetAnswer(questionID, answer)
	if err := s.sessions.SaveActive(ctx, toActive(ts)); err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// Remaining returns the time left on the learner's active test.
func (s *Service) Remaining(ctx context.Context, userID string) (time.Duration, error) {
	ts, err := s.Active(ctx, userID)
	if err != nil {
		return 0, err
	}
	return ts.Remaining(s.now()), nil
}

// Submit grades the active test, records it in the learner's history and
// ends it. ErrNoActiveSession means there was nothing to submit.
//
// When progress cannot be saved the test is still ended, and the result is
// returned together with a *PersistenceError.
func (s *Service) Submit(ctx context.Context, userID string) (*Result, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	ts, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempted, history, err := s.progress.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	res := Finalize(s.cat, ts, history, attempted, s.now())

	var saveErr error
	if err := s.progress.Save(ctx, userID, res.Attempted, res.History); err != nil {
		saveErr = &PersistenceError{Op: "save progress", Err: err}
	}
	if err := s.sessions.DeleteActive(ctx, userID); err != nil {
		s.warnf("failed to clear finished test: %v", err)
	}

	s.logEvent(ctx, store.SessionEventData{
		SessionID:       ts.ID,
		UserID:          userID,
		Action:          store.ActionSubmit,
		Format:          ts.Format,
		QuestionsServed: res.Total,
		CorrectAnswers:  res.Correct,
		Accuracy:        res.Accuracy,
		DurationSecs:    int(res.Elapsed.Seconds()),
	})
	return res, saveErr
}

// Reset forgets which questions the learner has seen. The test history is
// kept.
func (s *Service) Reset(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	_, history, err := s.progress.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	if err := s.progress.Save(ctx, userID, progress.AttemptedSet{}, history); err != nil {
		return &PersistenceError{Op: "reset attempted questions", Err: err}
	}

	s.logEvent(ctx, store.SessionEventData{
		UserID: userID,
		Action: store.ActionReset,
	})
	return nil
}

// Profile returns the learner's progress summary.
func (s *Service) Profile(ctx context.Context, userID string) (progress.Profile, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	attempted, history, err := s.progress.Load(ctx, userID)
	if err != nil {
		return progress.Profile{}, fmt.Errorf("load progress: %w", err)
	}
	return progress.BuildProfile(history, attempted, s.cat.Len()), nil
}

func (s *Service) loadActive(ctx context.Context, userID string) (*TestSession, error) {
	a, err := s.sessions.LoadActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active test: %w", err)
	}
	if a == nil {
		return nil, ErrNoActiveSession
	}
	return fromActive(a), nil
}

// logEvent appends to the event log. Failures are warnings only.
func (s *Service) logEvent(ctx context.Context, data store.SessionEventData) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendSessionEvent(ctx, data); err != nil {
		s.warnf("failed to log %s event: %v", data.Action, err)
	}
}

func (s *Service) warnf(format string, args ...any) {
	fmt.Fprintf(s.warnings, "warning: "+format+"\n", args...)
}

func toActive(ts *TestSession) *store.ActiveSession {
	c := ts.Clone()
	return &store.ActiveSession{
		ID:          c.ID,
		UserID:      c.UserID,
		Format:      c.Format,
		QuestionIDs: c.QuestionIDs,
		StartTime:   c.StartTime,
		TimeLimit:   c.TimeLimit,
		Answers:     c.Answers,
	}
}

func fromActive(a *store.ActiveSession) *TestSession {
	ts := &TestSession{
		ID:          a.ID,
		UserID:      a.UserID,
		Format:      a.Format,
		QuestionIDs: a.QuestionIDs,
		StartTime:   a.StartTime,
		TimeLimit:   a.TimeLimit,
		Answers:     a.Answers,
	}
	if ts.Answers == nil {
		ts.Answers = make(map[string]scoring.Answer)
	}
	return ts.Clone()
}
