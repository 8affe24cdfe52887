package selection

import (
	"math/rand/v2"
	"sync"

	"github.com/abhisek/quantprep/internal/catalog"
)

// Seen reports whether a question id has already been served.
type Seen interface {
	Has(id int) bool
}

// Result is the outcome of a selection.
type Result struct {
	Questions []catalog.Question

	// Exhausted is set when fewer than count unseen questions remained and
	// the whole catalog was used as the pool instead.
	Exhausted bool

	// Available is the number of unseen questions before selection.
	Available int
}

// IDs returns the selected question ids in test order.
func (r Result) IDs() []int {
	ids := make([]int, len(r.Questions))
	for i, q := range r.Questions {
		ids[i] = q.ID
	}
	return ids
}

// Selector chooses the questions for one test.
type Selector interface {
	Select(count int, dist Distribution, cat *catalog.Catalog, seen Seen) Result
}

// RandomSelector draws uniformly at random within each type, backfills
// across types and shuffles the result.
type RandomSelector struct {
	mu   sync.Mutex
	Rand *rand.Rand
}

// NewRandomSelector returns a selector using r. A nil r gets a randomly
// seeded source.
func NewRandomSelector(r *rand.Rand) *RandomSelector {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomSelector{Rand: r}
}

// Select returns min(count, catalog size) distinct questions. Questions
// in seen are skipped unless fewer than count unseen questions remain, in
// which case the full catalog is eligible and Result.Exhausted is set.
func (s *RandomSelector) Select(count int, dist Distribution, cat *catalog.Catalog, seen Seen) Result {
	if count <= 0 || cat == nil {
		return Result{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Rand == nil {
		s.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	all := cat.All()
	available := make([]catalog.Question, 0, len(all))
	for _, q := range all {
		if seen == nil || !seen.Has(q.ID) {
			available = append(available, q)
		}
	}

	res := Result{Available: len(available)}
	pool := available
	if len(available) < count {
		res.Exhausted = true
		pool = all
	}

	byType := make(map[catalog.Type][]catalog.Question)
	for _, q := range pool {
		byType[q.Type] = append(byType[q.Type], q)
	}

	targets := Targets(count, dist)
	chosen := make(map[int]bool, count)
	selected := make([]catalog.Question, 0, count)

	for _, t := range catalog.AllTypes() {
		group := byType[t]
		n := min(targets[t], len(group))
		for _, q := range s.draw(group, n) {
			chosen[q.ID] = true
			selected = append(selected, q)
		}
	}

	// Backfill from any type.
	if short := count - len(selected); short > 0 {
		var rest []catalog.Question
		for _, q := range pool {
			if !chosen[q.ID] {
				rest = append(rest, q)
			}
		}
		selected = append(selected, s.draw(rest, min(short, len(rest)))...)
	}

	s.Rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if len(selected) > count {
		selected = selected[:count]
	}
	res.Questions = selected
	return res
}

// draw picks n items uniformly without replacement using a partial
// Fisher-Yates shuffle over a copy of items.
func (s *RandomSelector) draw(items []catalog.Question, n int) []catalog.Question {
	if n <= 0 {
		return nil
	}
	buf := make([]catalog.Question, len(items))
	copy(buf, items)
	for i := 0; i < n; i++ {
		j := i + s.Rand.IntN(len(buf)-i)
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf[:n]
}
