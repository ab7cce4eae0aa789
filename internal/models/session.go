package models

import (
	"sync"
	"time"
)

// Session tracks a user's in-progress appeal between the type selection
// and the text message that completes it. Nothing is persisted until the
// text arrives.
type Session struct {
	UserID    int64
	Type      AppealType
	StartedAt time.Time
}

// SessionManager owns all in-progress appeal sessions, keyed by user ID.
// A user has at most one session; opening a new one replaces the old.
type SessionManager struct {
	sessions map[int64]*Session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*Session),
	}
}

// Get returns the session for the user, or nil if none is open.
func (m *SessionManager) Get(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

// Open starts a session for the user, discarding any previous one.
func (m *SessionManager) Open(userID int64, appealType AppealType) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session := &Session{
		UserID:    userID,
		Type:      appealType,
		StartedAt: time.Now(),
	}
	m.sessions[userID] = session
	return session
}

// Clear removes the user's session. It is a no-op when none is open.
func (m *SessionManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
