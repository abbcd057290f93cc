package estimate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle estimate survives. Field
// sessions are short; anything idle this long is an abandoned device.
const DefaultSessionTTL = 8 * time.Hour

// Registry maps session IDs to their builders so the web layer can
// keep devices apart. Estimates never outlive the process.
type Registry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

type session struct {
	builder  *Builder
	lastUsed time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*session),
		now:      time.Now,
	}
}

// Create starts a new empty estimate session and returns its ID.
func (r *Registry) Create() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()

	id := uuid.New()
	r.sessions[id] = &session{builder: NewBuilder(), lastUsed: r.now()}
	return id
}

// Get returns the builder for a session, refreshing its idle timer.
// The second result is false for unknown or expired sessions.
func (r *Registry) Get(id uuid.UUID) (*Builder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastUsed = r.now()
	return s.builder, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	return len(r.sessions)
}

// prune drops expired sessions. Caller holds the lock.
func (r *Registry) prune() {
	cutoff := r.now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
