package chat

import "sync"

// ThreadLocks serializes turns per thread. Two concurrent requests for
// the same thread run one after the other; requests for different
// threads proceed in parallel.
type ThreadLocks struct {
	locks sync.Map // threadID -> *sync.Mutex
}

// Lock acquires the lock for a thread, blocking until it is free, and
// returns the unlock function.
func (t *ThreadLocks) Lock(threadID string) func() {
	v, _ := t.locks.LoadOrStore(threadID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
