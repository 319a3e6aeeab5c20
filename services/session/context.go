// File: services/session/context.go
package session

import (
	"context"
	"sync"
	"time"

	"haulaway/backend"
)

// SessionReader is the subset of Store the context needs to resolve
// credentials.
type SessionReader interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
}

// Context is the per-sign-in engine state. It replaces the ambient
// module-level caches of older builds (proof URLs, preload flags, last-request
// times) with an object that is created at sign-in and discarded at sign-out.
// It also serves as the credential source for backend calls.
type Context struct {
	sessionID string
	store     SessionReader

	mu          sync.Mutex
	proofURLs   map[string]string
	lastRequest map[string]time.Time
	preloaded   map[string]bool
	pushToken   string
	closed      bool
}

// NewContext builds the engine context for an established session.
func NewContext(sessionID string, store SessionReader) *Context {
	return &Context{
		sessionID:   sessionID,
		store:       store,
		proofURLs:   make(map[string]string),
		lastRequest: make(map[string]time.Time),
		preloaded:   make(map[string]bool),
	}
}

// SessionID returns the owning session's id.
func (c *Context) SessionID() string { return c.sessionID }

// Token implements backend.CredentialSource. A missing or expired session is
// a hard failure; there is no fallback credential.
func (c *Context) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return "", backend.ErrNoCredential
	}
	sess, err := c.store.Get(ctx, c.sessionID)
	if err != nil || sess.Token == "" {
		return "", backend.ErrNoCredential
	}
	return sess.Token, nil
}

// Authenticated reports whether a usable credential is currently available.
func (c *Context) Authenticated(ctx context.Context) bool {
	_, err := c.Token(ctx)
	return err == nil
}

// ProofURL returns the most recently resolved proof URL held in memory for an
// order, if any.
func (c *Context) ProofURL(orderID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.proofURLs[orderID]
	return u, ok
}

// SetProofURL records a resolved proof URL in memory.
func (c *Context) SetProofURL(orderID, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.proofURLs[orderID] = url
}

// LastRequest returns the time of the last status fetch issued for an order.
func (c *Context) LastRequest(orderID string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRequest[orderID]
}

// MarkRequest records a status fetch for throttling purposes.
func (c *Context) MarkRequest(orderID string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.lastRequest[orderID] = at
}

// Preloaded reports whether the named resource was already warmed this session.
func (c *Context) Preloaded(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preloaded[key]
}

// MarkPreloaded flags the named resource as warmed.
func (c *Context) MarkPreloaded(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.preloaded[key] = true
}

// PushToken returns the device push token registered for this session.
func (c *Context) PushToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushToken
}

// SetPushToken records the device push token.
func (c *Context) SetPushToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pushToken = token
}

// Close discards all in-memory state. Called at sign-out; late writers become
// no-ops rather than resurrecting the caches.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.proofURLs = make(map[string]string)
	c.lastRequest = make(map[string]time.Time)
	c.preloaded = make(map[string]bool)
	c.pushToken = ""
}
