// Package session owns the per-upload state: each session holds exactly
// one dataset and one conclusion log, never shared across sessions.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"edabot/internal/dataset"
	"edabot/internal/memory"
)

// Session binds one uploaded dataset to its conclusion log.
type Session struct {
	ID       string
	Filename string
	Dataset  *dataset.Dataset
	Log      *memory.Log

	CreatedAt time.Time
	lastUsed  time.Time
}

// Manager is the session registry. Idle sessions are removed by Sweep,
// which the server runs on a cron schedule.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	store    *memory.Store
}

// NewManager creates a registry with the given idle TTL. store may be nil
// to keep conclusions memory-only.
func NewManager(ttl time.Duration, store *memory.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		store:    store,
	}
}

// Create registers a new session owning the dataset. The conclusion log is
// mirrored to the store when one is configured.
func (m *Manager) Create(ds *dataset.Dataset, filename string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Filename:  filename,
		Dataset:   ds,
		Log:       memory.NewLog(),
		CreatedAt: time.Now(),
		lastUsed:  time.Now(),
	}
	if m.store != nil {
		id := s.ID
		s.Log.OnAppend = func(rec memory.Record) {
			if err := m.store.Insert(id, rec); err != nil {
				log.Printf("session %s: persist conclusion: %v", id, err)
			}
		}
		s.Log.OnClear = func() {
			if err := m.store.DeleteSession(id); err != nil {
				log.Printf("session %s: clear conclusions: %v", id, err)
			}
		}
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("sessão %s não encontrada", id)
	}
	s.lastUsed = time.Now()
	return s, nil
}

// Remove drops a session and its persisted conclusions.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok && m.store != nil {
		if err := m.store.DeleteSession(id); err != nil {
			log.Printf("session %s: delete persisted conclusions: %v", id, err)
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and reports how many
// were dropped. A zero TTL disables expiry.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		if m.store != nil {
			if err := m.store.DeleteSession(id); err != nil {
				log.Printf("session %s: expire persisted conclusions: %v", id, err)
			}
		}
	}
	if len(expired) > 0 {
		log.Printf("session sweep removed %d idle session(s)", len(expired))
	}
	return len(expired)
}
