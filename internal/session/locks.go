package session

import "sync"

// userLocks hands out one mutex per user id so that operations on the same
// learner's test never interleave. Entries are reference counted and removed
// once no caller holds or waits on them, so the map only holds active users.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// lock acquires the user's mutex and returns its release function.
func (l *userLocks) lock(user string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*userLock)
	}
	e, ok := l.locks[user]
	if !ok {
		e = &userLock{}
		l.locks[user] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, user)
		}
		l.mu.Unlock()
	}
}

// size returns the number of tracked users.
func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
