// File: services/session/manager.go
package session

import "sync"

// Manager tracks the live engine contexts, one per established session.
type Manager struct {
	store *Store

	mu       sync.Mutex
	contexts map[string]*Context
}

func NewManager(store *Store) *Manager {
	return &Manager{
		store:    store,
		contexts: make(map[string]*Context),
	}
}

// Store returns the underlying session store.
func (m *Manager) Store() *Store { return m.store }

// Obtain returns the engine context for a session, creating it on first use
// (e.g. after a process restart, when the session still lives in Redis but
// the in-memory context is gone).
func (m *Manager) Obtain(sessionID string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.contexts[sessionID]; ok {
		return c
	}
	c := NewContext(sessionID, m.store)
	m.contexts[sessionID] = c
	return c
}

// Discard closes and removes the engine context at sign-out.
func (m *Manager) Discard(sessionID string) {
	m.mu.Lock()
	c := m.contexts[sessionID]
	delete(m.contexts, sessionID)
	m.mu.Unlock()
	if c != nil {
		c.Close()
	}
}
