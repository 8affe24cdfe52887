package progress

import (
	"math"
	"time"
)

// MaxHistory is the number of test results kept per learner.
const MaxHistory = 10

// HistoryEntry summarizes one completed test.
type HistoryEntry struct {
	Date     time.Time `json:"date"`
	Format   string    `json:"format"`
	Accuracy float64   `json:"accuracy"` // percentage, one decimal
	Correct  int       `json:"correct"`
	Total    int       `json:"total"`
}

// History is a learner's test log, oldest first.
type History []HistoryEntry

// Append returns a new history with e added, keeping only the most recent
// MaxHistory entries. h is not modified.
func (h History) Append(e HistoryEntry) History {
	out := make(History, 0, min(len(h)+1, MaxHistory))
	start := max(0, len(h)+1-MaxHistory)
	if start < len(h) {
		out = append(out, h[start:]...)
	}
	return append(out, e)
}

// NewEntry builds the history entry for a finished test.
func NewEntry(date time.Time, format string, correct, total int) HistoryEntry {
	return HistoryEntry{
		Date:     date,
		Format:   format,
		Accuracy: Accuracy(correct, total),
		Correct:  correct,
		Total:    total,
	}
}

// Accuracy returns correct/total as a percentage rounded to one decimal.
// It is 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(correct) / float64(total) * 100)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
