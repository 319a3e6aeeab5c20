package notification

import (
	"sync"

	"haulaway/backend"
	"haulaway/services/session"

	"go.uber.org/zap"
)

// RegistrarSet manages one TokenRegistrar per live session.
type RegistrarSet struct {
	Backend backend.Client
	Logger  *zap.Logger

	mu         sync.Mutex
	registrars map[string]*TokenRegistrar
}

func NewRegistrarSet(bk backend.Client, logger *zap.Logger) *RegistrarSet {
	return &RegistrarSet{
		Backend:    bk,
		Logger:     logger,
		registrars: make(map[string]*TokenRegistrar),
	}
}

// For returns the registrar for the session, creating it on first use.
func (s *RegistrarSet) For(sess *session.Context) *TokenRegistrar {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.registrars[sess.SessionID()]; ok {
		return r
	}
	r := NewTokenRegistrar(s.Backend, sess, s.Logger)
	s.registrars[sess.SessionID()] = r
	return r
}

// Close tears down the session's registrar, cancelling any scheduled retry.
func (s *RegistrarSet) Close(sessionID string) {
	s.mu.Lock()
	r := s.registrars[sessionID]
	delete(s.registrars, sessionID)
	s.mu.Unlock()
	if r != nil {
		r.Close()
	}
}
