package store

import (
	"context"
	"sync"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/remote"
)

// Manager owns the open sessions, one per signed-in user. It is the
// explicit context object constructed at application start; there is
// no process-wide store singleton.
type Manager struct {
	remote remote.Store
	logger logger.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager(r remote.Store, log logger.Logger) *Manager {
	return &Manager{
		remote:   r,
		logger:   log,
		sessions: make(map[string]*Session),
	}
}

// Open returns the user's session, creating and opening one if none
// exists. Safe to call on every request: an already-open session is
// returned as is.
func (m *Manager) Open(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if sess, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return sess, nil
	}
	sess := NewSession(userID, m.remote, m.logger)
	m.sessions[userID] = sess
	m.mu.Unlock()

	if err := sess.Open(ctx); err != nil {
		m.mu.Lock()
		delete(m.sessions, userID)
		m.mu.Unlock()
		return nil, err
	}
	return sess, nil
}

// Get returns the user's open session, if any.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// Close tears down the user's session and discards its local state.
// Called on sign-out; switching users closes the previous user's
// session before the next one is opened.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		sess.Close()
	}
}

// CloseAll tears down every open session. Used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
