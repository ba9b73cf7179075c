package frontend

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps tool identities to their front ends. Lookup by a tool the
// registry never saw fails with *UnknownToolError naming the registered
// identities.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Frontend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Frontend)}
}

// Register adds fe under its ID. A nil front end, an empty identity, or a
// duplicate identity panics: wiring mistakes surface at startup, not at
// lookup time.
func (r *Registry) Register(fe *Frontend) {
	if fe == nil || fe.ID == "" {
		panic("frontend: Register called without a tool identity")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[fe.ID]; dup {
		panic(fmt.Sprintf("frontend: duplicate front end for tool %q", fe.ID))
	}
	r.byID[fe.ID] = fe
}

// Lookup returns the front end registered for tool.
func (r *Registry) Lookup(tool string) (*Frontend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fe, ok := r.byID[tool]
	if !ok {
		return nil, &UnknownToolError{Tool: tool, Known: r.idsLocked()}
	}
	return fe, nil
}

// IDs returns the registered tool identities, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idsLocked()
}

// Len returns the number of registered front ends.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
