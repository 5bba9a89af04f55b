// Package capability maps command targets to groups of named operations. The
// registry is an explicit lookup table: unknown targets and operations resolve
// to nothing rather than an error, which tolerates version skew between the
// agent and the server.
package capability

import (
	"context"
	"sync"
)

// Handler is a single remotely invokable operation. Args arrive positional and
// in order, decoded from the command envelope. The returned value is echoed to
// the server as the command result; an error propagates to whoever invoked
// the relay.
type Handler func(ctx context.Context, args []interface{}) (interface{}, error)

// Group is a named set of operations on the agent (e.g. "printer").
type Group interface {
	// Operation resolves an operation by name. The second return is false
	// when the group does not implement the operation.
	Operation(name string) (Handler, bool)
}

// FuncGroup is a Group backed by a plain map.
type FuncGroup map[string]Handler

// Operation implements Group.
func (g FuncGroup) Operation(name string) (Handler, bool) {
	h, ok := g[name]
	return h, ok
}

// Registry holds the capability groups exposed by this agent.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]Group
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]Group)}
}

// Register adds or replaces the group for a target name.
func (r *Registry) Register(target string, g Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[target] = g
}

// Resolve looks up the group for a target name.
func (r *Registry) Resolve(target string) (Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[target]
	return g, ok
}
