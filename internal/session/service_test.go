package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/progress"
	"github.com/abhisek/quantprep/internal/scoring"
	"github.com/abhisek/quantprep/internal/selection"
	"github.com/abhisek/quantprep/internal/store"
)

// --- fakes ---

type fakeProgress struct {
	mu        sync.Mutex
	attempted map[string]progress.AttemptedSet
	history   map[string]progress.History
	saveErr   error
	loadErr   error
	saves     int
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{
		attempted: map[string]progress.AttemptedSet{},
		history:   map[string]progress.History{},
	}
}

func (f *fakeProgress) Load(_ context.Context, user string) (progress.AttemptedSet, progress.History, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return progress.AttemptedSet{}, nil, f.loadErr
	}
	return f.attempted[user].Clone(), append(progress.History(nil), f.history[user]...), nil
}

func (f *fakeProgress) Save(_ context.Context, user string, a progress.AttemptedSet, h progress.History) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.attempted[user] = a.Clone()
	f.history[user] = append(progress.History(nil), h...)
	return nil
}

type fakeSessions struct {
	mu     sync.Mutex
	active map[string]*store.ActiveSession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{active: map[string]*store.ActiveSession{}}
}

func (f *fakeSessions) LoadActive(_ context.Context, user string) (*store.ActiveSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.active[user]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (f *fakeSessions) SaveActive(_ context.Context, a *store.ActiveSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *a
	f.active[a.UserID] = &c
	return nil
}

func (f *fakeSessions) DeleteActive(_ context.Context, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, user)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []store.SessionEventData
	err    error
}

func (f *fakeEvents) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, d)
	return nil
}

func (f *fakeEvents) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		out = append(out, e.Action)
	}
	return out
}

// --- helpers ---

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func fourQuestionCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Question{
		{ID: 1, Type: catalog.TypeMultipleChoice, Options: []string{"OptionA", "OptionB", "OptionC"}, Correct: catalog.AnswerKey{Index: 0}, Difficulty: catalog.DifficultyEasy},
		{ID: 2, Type: catalog.TypeMultipleAnswer, Options: []string{"OptionA", "OptionB", "OptionC"}, Correct: catalog.AnswerKey{Indices: []int{0, 2}}, Difficulty: catalog.DifficultyMedium},
		{ID: 3, Type: catalog.TypeComparison, Options: catalog.ComparisonOptions[:], Correct: catalog.AnswerKey{Index: 0}, Difficulty: catalog.DifficultyHard},
		{ID: 4, Type: catalog.TypeNumeric, Correct: catalog.AnswerKey{Value: "10.5"}, Difficulty: catalog.DifficultyMedium},
	})
	require.NoError(t, err)
	return c
}

type harness struct {
	svc      *Service
	progress *fakeProgress
	sessions *fakeSessions
	events   *fakeEvents
	clock    *clock
	warnings *bytes.Buffer
}

func newHarness(t *testing.T, enforce bool) *harness {
	t.Helper()
	h := &harness{
		progress: newFakeProgress(),
		sessions: newFakeSessions(),
		events:   &fakeEvents{},
		clock:    &clock{t: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)},
		warnings: &bytes.Buffer{},
	}
	n := 0
	svc, err := NewService(Options{
		Catalog:  fourQuestionCatalog(t),
		Progress: h.progress,
		Sessions: h.sessions,
		Events:   h.events,
		Selector: selection.NewRandomSelector(rand.New(rand.NewPCG(1, 2))),
		Formats: map[string]Format{
			"quick": {Key: "quick", Questions: 4, TimeLimit: 18 * time.Minute},
			"tiny":  {Key: "tiny", Questions: 2, TimeLimit: time.Minute},
		},
		Now:              h.clock.Now,
		NewID:            func() string { n++; return fmt.Sprintf("test-%d", n) },
		EnforceTimeLimit: enforce,
		Warnings:         h.warnings,
	})
	require.NoError(t, err)
	h.svc = svc
	return h
}

// --- tests ---

func TestNewService_RequiresCollaborators(t *testing.T) {
	_, err := NewService(Options{})
	assert.Error(t, err)

	_, err = NewService(Options{Catalog: fourQuestionCatalog(t)})
	assert.Error(t, err)
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	start, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, start.Session.QuestionIDs)
	assert.False(t, start.Exhausted)

	answers := map[int]scoring.Answer{
		1: scoring.Text("OptionA"),
		2: scoring.MultiText("OptionA", "OptionC"),
		3: scoring.Text("Quantity B is greater"),
		4: scoring.Text("10.5"),
	}
	for id, a := range answers {
		require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", id, a))
	}

	res, err := h.svc.Submit(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 75.0, res.Accuracy)
	assert.Equal(t, []int{1, 2, 3, 4}, res.Attempted.IDs())

	attempted, history, err := h.progress.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, attempted.IDs())
	require.Len(t, history, 1)
	assert.Equal(t, "quick", history[0].Format)
	assert.Equal(t, 75.0, history[0].Accuracy)

	_, err = h.svc.Active(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Equal(t, []string{store.ActionStart, store.ActionSubmit}, h.events.actions())
}

func TestStart_InvalidFormat(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	first, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)

	_, err = h.svc.Start(ctx, "u1", "marathon")
	require.ErrorIs(t, err, ErrInvalidFormat)

	// The existing test is untouched.
	active, err := h.svc.Active(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.Session.ID, active.ID)
}

func TestStart_MarksQuestionsAttemptedImmediately(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	res, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)

	attempted, history, err := h.progress.Load(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, res.Session.QuestionIDs, attempted.IDs())
	assert.Empty(t, history)
}

func TestStart_AvoidsSeenQuestionsThenReportsExhaustion(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	first, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)
	second, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)

	assert.False(t, second.Exhausted)
	for _, id := range second.Session.QuestionIDs {
		assert.NotContains(t, first.Session.QuestionIDs, id)
	}

	third, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)
	assert.True(t, third.Exhausted)
	assert.Equal(t, 0, third.Available)
	assert.Len(t, third.Session.QuestionIDs, 2)
}

func TestStart_DiscardsPreviousTest(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	first, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)
	require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", first.Session.QuestionIDs[0], scoring.Text("x")))

	second, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)

	active, err := h.svc.Active(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.Session.ID, active.ID)
	assert.Equal(t, 0, active.AnsweredCount())
}

func TestNoActiveSession(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	err := h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("OptionA"))
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = h.svc.Submit(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = h.svc.Remaining(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSubmit_Twice(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)
	_, err = h.svc.Submit(ctx, "u1")
	require.NoError(t, err)

	_, err = h.svc.Submit(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, history, _ := h.progress.Load(ctx, "u1")
	assert.Len(t, history, 1)
}

func TestSubmitAnswer_UnknownQuestion(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	res, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)

	var outside int
	for id := 1; id <= 4; id++ {
		if !res.Session.Contains(id) {
			outside = id
			break
		}
	}
	err = h.svc.SubmitAnswer(ctx, "u1", outside, scoring.Text("OptionA"))
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestSubmitAnswer_ReplaceAndClear(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)

	require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("OptionB")))
	require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("OptionA")))

	active, err := h.svc.Active(ctx, "u1")
	require.NoError(t, err)
	a, ok := active.Answer(1)
	require.True(t, ok)
	assert.Equal(t, "OptionA", a.String())

	require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("")))
	active, err = h.svc.Active(ctx, "u1")
	require.NoError(t, err)
	_, ok = active.Answer(1)
	assert.False(t, ok)
}

func TestSubmitAnswer_TimeExpired(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)

	h.clock.Advance(10 * time.Minute)
	left, err := h.svc.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Minute, left)

	h.clock.Advance(8 * time.Minute)
	left, err = h.svc.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), left)

	err = h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("OptionA"))
	assert.ErrorIs(t, err, ErrTimeExpired)

	// Expired tests can still be graded.
	res, err := h.svc.Submit(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Correct)
	assert.Equal(t, 18*time.Minute, res.Elapsed)
}

func TestSubmitAnswer_TimeLimitNotEnforced(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)
	h.clock.Advance(time.Hour)

	require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("OptionA")))
	left, err := h.svc.Remaining(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), left)
}

func TestSubmit_PersistenceFailure(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)
	require.NoError(t, h.svc.SubmitAnswer(ctx, "u1", 1, scoring.Text("OptionA")))

	h.progress.saveErr = errors.New("disk full")
	res, err := h.svc.Submit(ctx, "u1")

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr), "want *PersistenceError, got %v", err)
	assert.EqualError(t, perr.Unwrap(), "disk full")
	require.NotNil(t, res, "result must be returned with the persistence error")
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 25.0, res.Accuracy)

	// The test is over even though progress was not saved.
	_, err = h.svc.Active(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStart_PersistenceFailureStillStarts(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	h.progress.saveErr = errors.New("read-only")
	res, err := h.svc.Start(ctx, "u1", "tiny")

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	require.NotNil(t, res)

	active, err := h.svc.Active(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, res.Session.ID, active.ID)
}

func TestSubmit_LoadFailureKeepsTest(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)

	h.progress.loadErr = errors.New("locked")
	_, err = h.svc.Submit(ctx, "u1")
	require.Error(t, err)

	h.progress.loadErr = nil
	_, err = h.svc.Active(ctx, "u1")
	assert.NoError(t, err)
}

func TestReset_KeepsHistory(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)
	_, err = h.svc.Submit(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Reset(ctx, "u1"))

	attempted, history, err := h.progress.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, attempted.Len())
	assert.Len(t, history, 1)

	p, err := h.svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TestsTaken)
	assert.Equal(t, 0, p.QuestionsAttempted)
	assert.Equal(t, 4, p.TotalAvailable)
	assert.Contains(t, h.events.actions(), store.ActionReset)
}

func TestHistoryBoundAcrossSubmits(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, err := h.svc.Start(ctx, "u1", "tiny")
		require.NoError(t, err)
		h.clock.Advance(time.Minute)
		_, err = h.svc.Submit(ctx, "u1")
		require.NoError(t, err)
	}

	_, history, err := h.progress.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, progress.MaxHistory)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].Date.Before(history[i].Date), "history out of order at %d", i)
	}
}

func TestProfile_NewLearner(t *testing.T) {
	h := newHarness(t, true)

	p, err := h.svc.Profile(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, 0, p.TestsTaken)
	assert.Equal(t, 0.0, p.AverageAccuracy)
}

func TestEventFailuresAreWarnings(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.events.err = errors.New("event table missing")

	_, err := h.svc.Start(ctx, "u1", "tiny")
	require.NoError(t, err)
	assert.Contains(t, h.warnings.String(), "warning: failed to log start event")
}

func TestConcurrentAnswersAreNotLost(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.svc.Start(ctx, "u1", "quick")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for id := 1; id <= 4; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.NoError(t, h.svc.SubmitAnswer(ctx, "u1", id, scoring.Text(fmt.Sprintf("a%d", id))))
		}(id)
	}
	wg.Wait()

	active, err := h.svc.Active(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, active.AnsweredCount())
}
