package journal

import "sync"

// LockTable hands out advisory in-process locks by key. Find-or-create
// sequences lock their (profile, date) key and thing-list mutations lock
// their entry id, so concurrent callers serialize instead of interleaving
// check-then-act steps.
//
// Locks are never released from the table; the key space is bounded by
// the profiles and days touched in one process lifetime.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key and returns its unlock function.
func (t *LockTable) Lock(key string) func() {
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
