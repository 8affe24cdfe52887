package session

import (
	"time"

	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/progress"
	"github.com/abhisek/quantprep/internal/scoring"
)

// Detail is the graded outcome of one question.
type Detail struct {
	Position int
	Question catalog.Question
	Answer   scoring.Answer
	Correct  bool

	// Missing is set when the id is no longer in the catalog.
	Missing bool
}

// Result is the outcome of a submitted test.
type Result struct {
	SessionID string
	Format    string
	Correct   int
	Total     int
	Accuracy  float64
	Elapsed   time.Duration
	Details   []Detail

	// Entry is the history entry recorded for this test.
	Entry progress.HistoryEntry

	// History and Attempted are the learner's updated progress.
	History   progress.History
	Attempted progress.AttemptedSet
}

// Finalize grades ts against cat and folds the outcome into the learner's
// progress. Unanswered questions and questions missing from the catalog
// count as incorrect. It does not modify its inputs.
func Finalize(cat *catalog.Catalog, ts *TestSession, history progress.History, attempted progress.AttemptedSet, now time.Time) *Result {
	res := &Result{
		SessionID: ts.ID,
		Format:    ts.Format,
		Total:     len(ts.QuestionIDs),
		Elapsed:   ts.Elapsed(now),
		Details:   make([]Detail, 0, len(ts.QuestionIDs)),
	}

	for i, id := range ts.QuestionIDs {
		answer, _ := ts.Answer(id)
		d := Detail{Position: i + 1, Answer: answer}

		q, err := cat.Get(id)
		if err != nil {
			d.Question = catalog.Question{ID: id}
			d.Missing = true
		} else {
			d.Question = q
			d.Correct = scoring.Score(q, answer)
		}
		if d.Correct {
			res.Correct++
		}
		res.Details = append(res.Details, d)
	}

	res.Entry = progress.NewEntry(now, ts.Format, res.Correct, res.Total)
	res.Accuracy = res.Entry.Accuracy
	res.History = history.Append(res.Entry)
	res.Attempted = attempted.Union(ts.QuestionIDs...)
	return res
}
