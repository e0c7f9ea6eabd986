package scanner

import "sync"

// Quota is the verification budget shared by the items of a batch. Callers
// hold it by reference; there is no notification when it changes.
type Quota struct {
	mu        sync.Mutex
	remaining int
}

func NewQuota(n int) *Quota {
	if n < 0 {
		n = 0
	}
	return &Quota{remaining: n}
}

// Take spends one unit. It reports false once the quota is exhausted.
func (q *Quota) Take() bool {
	if q == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.remaining <= 0 {
		return false
	}
	q.remaining--
	return true
}

func (q *Quota) Set(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n < 0 {
		n = 0
	}
	q.remaining = n
}

func (q *Quota) Remaining() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remaining
}
