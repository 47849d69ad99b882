package autopilot

import "sync"

// Registry maps session ids to sessions and their running engines. It is
// injected into the HTTP layer at process start; there is no global state
// and no expiry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	engines  map[string]*Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		engines:  map[string]*Engine{},
	}
}

// GetOrCreate returns the session for id, creating an idle one if absent.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := NewSession(id)
	r.sessions[id] = s
	return s
}

// Get returns an existing session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Engine returns the running engine for a session, if any.
func (r *Registry) Engine(id string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[id]
	return e, ok
}

// PutEngine records the engine driving a session.
func (r *Registry) PutEngine(id string, e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[id] = e
}

// RemoveEngine drops a session's engine entry. The session itself is kept so
// its run log stays inspectable.
func (r *Registry) RemoveEngine(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, id)
}
