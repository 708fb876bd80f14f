// Package session holds each user's in-flight wizard dialogue. Sessions
// live in memory only: a restart cancels every dialogue but loses no
// committed data.
package session

import (
	"sync"
	"time"
)

type Session struct {
	WizardID     string
	Step         int
	Answers      map[string]any
	LastActivity time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Begin starts a fresh session for the user, silently discarding any
// session already in progress. Last wizard started wins.
func (m *Manager) Begin(userID int64, wizardID string) {
	m.mu.Lock()
	m.sessions[userID] = &Session{
		WizardID:     wizardID,
		Answers:      make(map[string]any),
		LastActivity: time.Now(),
	}
	m.mu.Unlock()
}

// Active reports the user's current wizard and step, if any.
func (m *Manager) Active(userID int64) (wizardID string, step int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return "", 0, false
	}
	return s.WizardID, s.Step, true
}

// Put stores a validated answer under key.
func (m *Manager) Put(userID int64, key string, value any) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		s.Answers[key] = value
		s.LastActivity = time.Now()
	}
	m.mu.Unlock()
}

func (m *Manager) SetStep(userID int64, step int) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		s.Step = step
		s.LastActivity = time.Now()
	}
	m.mu.Unlock()
}

// Snapshot returns a copy of the accumulated answers.
func (m *Manager) Snapshot(userID int64) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(s.Answers))
	for k, v := range s.Answers {
		out[k] = v
	}
	return out
}

// Clear drops the user's session. It is a no-op when none exists.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}
