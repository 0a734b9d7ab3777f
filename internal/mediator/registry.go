package mediator

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Result is what a leaf operation returns on success. Info marks outcomes
// that are reports rather than state changes; the dispatcher maps it to the
// info envelope variant.
type Result struct {
	Message string
	Data    map[string]interface{}
	Info    bool
}

// LeafFunc is the signature of a leaf operation. It receives pre-validated
// arguments and a session holding a live connection; it returns a plain
// result or an error. A leaf must not switch pages or build envelopes;
// both are the mediation layer's job.
type LeafFunc func(ctx context.Context, s *Session, args Args) (*Result, error)

// Operation is the static registration record for one remote-callable
// operation: name, human label, required page, parameter contract, and the
// leaf function. Registered once at process start, immutable after.
type Operation struct {
	Name        string
	Title       string
	Description string

	// Page, when non-empty, names the Resolve page the application must be
	// on while the leaf runs. The dispatcher wraps the leaf in the page
	// guard; leaves never switch pages themselves.
	Page string

	// NoHost lets the leaf run without acquiring a live scripting handle.
	// Reserved for connection probes and the reconnect operation, which
	// must answer even when Resolve is unreachable.
	NoHost bool

	Args  []ArgSpec
	Rules []Rule

	Handler LeafFunc
}

// Registry maps operation names to their descriptors. Registration happens
// during bootstrap; lookups at dispatch time are read-only.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]*Operation
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*Operation)}
}

// Register adds an operation. Duplicate names and nil handlers are
// programming errors surfaced at startup, not at dispatch time.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}
	if op.Handler == nil {
		return fmt.Errorf("operation %s has no handler", op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[op.Name]; exists {
		return fmt.Errorf("operation %s already registered", op.Name)
	}
	r.ops[op.Name] = &op
	return nil
}

// MustRegister is Register for the static catalogue, where a duplicate is a
// bug worth failing the process over.
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Lookup resolves a call name. An unknown name is a distinct error kind at
// dispatch time, never a crash.
func (r *Registry) Lookup(name string) (*Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// Operations returns all descriptors sorted by name, for tool listing.
func (r *Registry) Operations() []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Operation, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}
