// Package errstats tracks per-source connection error rates so the agent can
// tell a flaky network from a down server.
package errstats

import "sync"

// Tracker counts attempts and connection errors per source under one lock.
type Tracker struct {
	mu       sync.Mutex
	attempts map[string]int
	errors   map[string]int
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		attempts: make(map[string]int),
		errors:   make(map[string]int),
	}
}

// Attempt records one attempt against source.
func (t *Tracker) Attempt(source string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[source]++
}

// ConnectionError records one connection error against source.
func (t *Tracker) ConnectionError(source string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors[source]++
}

// ErrorRate returns errors/attempts for source, or 0 when nothing was
// attempted.
func (t *Tracker) ErrorRate(source string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	attempts := t.attempts[source]
	if attempts == 0 {
		return 0
	}
	return float64(t.errors[source]) / float64(attempts)
}

// Reset clears the counters for source.
func (t *Tracker) Reset(source string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, source)
	delete(t.errors, source)
}
