// Package identity holds the process-wide linked printer identity, set once
// the agent has authenticated with the server.
package identity

import "sync"

// Printer is the printer this agent is linked to on the server.
type Printer struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Store is a concurrency-safe holder for the linked printer. The printer is
// nil until linking completes; callers must treat nil as "not linked".
type Store struct {
	mu      sync.RWMutex
	printer *Printer
}

// NewStore creates an unlinked Store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the linked printer. Pass nil to mark the agent unlinked.
func (s *Store) Set(p *Printer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printer = p
}

// LinkedPrinter returns the current linked printer, or nil when not linked.
func (s *Store) LinkedPrinter() *Printer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.printer
}
