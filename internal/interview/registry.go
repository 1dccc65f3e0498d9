package interview

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live interview sessions by id.
type Registry struct {
	factory func() *Controller

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Controller
}

// NewRegistry constructs a registry that builds sessions via the factory.
func NewRegistry(factory func() *Controller) *Registry {
	return &Registry{
		factory:  factory,
		sessions: make(map[uuid.UUID]*Controller),
	}
}

// Create builds and tracks a new session.
func (r *Registry) Create() *Controller {
	ctrl := r.factory()
	r.mu.Lock()
	r.sessions[ctrl.ID()] = ctrl
	r.mu.Unlock()
	return ctrl
}

// Get returns the session with the given id.
func (r *Registry) Get(id uuid.UUID) (*Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.sessions[id]
	return ctrl, ok
}
