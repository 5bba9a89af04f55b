// Package dedup tracks recently seen command refs so that a command delivered
// over both the control channel and the data channel is only processed once.
package dedup

import "sync"

// DefaultCapacity is the number of refs the ledger remembers. The server may
// redeliver a command on both channels within a short window; 25 comfortably
// covers that window at the expected command rate.
const DefaultCapacity = 25

// Ledger is a bounded, insertion-ordered set of recently seen refs. When the
// ledger is full, recording a new ref evicts the oldest one.
type Ledger struct {
	mu       sync.Mutex
	refs     []string
	capacity int
}

// NewLedger creates a Ledger with the given capacity. A capacity of zero or
// less falls back to DefaultCapacity.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		refs:     make([]string, 0, capacity),
		capacity: capacity,
	}
}

// SeenOrRecord reports whether ref has been recorded before. If not, it
// records ref (evicting the oldest entry when at capacity) and returns false.
// Check and insert are one critical section so two concurrent arrivals of the
// same ref cannot both observe "not seen".
func (l *Ledger) SeenOrRecord(ref string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.refs {
		if r == ref {
			return true
		}
	}

	if len(l.refs) == l.capacity {
		copy(l.refs, l.refs[1:])
		l.refs = l.refs[:l.capacity-1]
	}
	l.refs = append(l.refs, ref)
	return false
}

// Len returns the number of refs currently recorded.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.refs)
}
