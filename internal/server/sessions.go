package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
)

// sessionRegistry holds live consultations keyed by id. Sessions idle for
// longer than ttl are dropped on the next create.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*consultant.Session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*consultant.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *sessionRegistry) create(s *consultant.Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	id := uuid.NewString()
	r.sessions[id] = s
	return id
}

func (r *sessionRegistry) get(id string) (*consultant.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *sessionRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *sessionRegistry) pruneLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
