package progress

// Profile is a read-only view over a learner's progress. It is derived on
// demand and never stored.
type Profile struct {
	TestsTaken         int
	AverageAccuracy    float64
	TotalCorrect       int
	TotalQuestions     int
	QuestionsAttempted int
	TotalAvailable     int
	History            History
}

// BuildProfile derives a Profile. AverageAccuracy is the mean of the
// per-test accuracies, not the pooled ratio.
func BuildProfile(history History, attempted AttemptedSet, catalogSize int) Profile {
	p := Profile{
		TestsTaken:         len(history),
		QuestionsAttempted: attempted.Len(),
		TotalAvailable:     catalogSize,
		History:            append(History(nil), history...),
	}
	var sum float64
	for _, e := range history {
		sum += e.Accuracy
		p.TotalCorrect += e.Correct
		p.TotalQuestions += e.Total
	}
	if p.TestsTaken > 0 {
		p.AverageAccuracy = round1(sum / float64(p.TestsTaken))
	}
	return p
}
