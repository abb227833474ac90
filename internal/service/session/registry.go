package session

import (
	"errors"
	"sync"
	"time"

	model "github.com/cloudy-assistant/backend/internal/model/session"
)

var (
	ErrDuplicateSession = errors.New("session already exists")
	ErrSessionNotFound  = errors.New("session not found")
)

// Registry is the single source of truth for live sessions. The outer lock
// guards only the map; every entry carries its own mutex so work on one
// session never blocks another.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *model.Session
}

// NewRegistry bootstraps an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Create inserts a new created-state session. The config map is copied so the
// caller cannot mutate it after the fact.
func (r *Registry) Create(id, userID, roomName string, config map[string]string) (model.Session, error) {
	frozen := make(map[string]string, len(config))
	for k, v := range config {
		frozen[k] = v
	}

	sess := &model.Session{
		ID:        id,
		UserID:    userID,
		RoomName:  roomName,
		State:     model.StateCreated,
		Config:    frozen,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; ok {
		return model.Session{}, ErrDuplicateSession
	}
	r.entries[id] = &entry{sess: sess}
	return sess.Clone(), nil
}

// Get returns a snapshot of the session, or ErrSessionNotFound.
func (r *Registry) Get(id string) (model.Session, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone(), nil
}

// Remove deletes the session. Removing an absent id is a no-op so that
// disconnect-triggered cleanup can race an explicit end_session safely.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// update runs fn while holding that session's lock. Different session ids
// proceed independently; calls on the same id are linearized.
func (r *Registry) update(id string, fn func(*model.Session) error) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}
