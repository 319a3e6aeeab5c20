// File: services/notification/registrar.go
package notification

import (
	"context"
	"net/http"
	"sync"
	"time"

	"haulaway/backend"
	"haulaway/services/session"

	"go.uber.org/zap"
)

const maxRegisterAttempts = 3

// TokenRegistrar registers the device push token with the backend whenever it
// changes, with exponential backoff on failure. Registration only happens
// while a session credential exists; otherwise the trigger is a no-op. Close
// cancels any scheduled retry so nothing outlives the owning session.
type TokenRegistrar struct {
	Backend backend.Client
	Session *session.Context
	Logger  *zap.Logger

	// BaseDelay is the backoff unit (1s in production, shrunk in tests).
	BaseDelay time.Duration

	mu        sync.Mutex
	lastToken string
	attempts  int
	timer     *time.Timer
	closed    bool
}

func NewTokenRegistrar(bk backend.Client, sess *session.Context, logger *zap.Logger) *TokenRegistrar {
	return &TokenRegistrar{
		Backend:   bk,
		Session:   sess,
		Logger:    logger,
		BaseDelay: time.Second,
	}
}

// Register triggers registration of the given token. A new token value resets
// the attempt counter and supersedes any scheduled retry for the old one.
func (r *TokenRegistrar) Register(ctx context.Context, token string) {
	r.mu.Lock()
	if r.closed || token == "" {
		r.mu.Unlock()
		return
	}
	if token != r.lastToken {
		r.lastToken = token
		r.attempts = 0
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
	}
	r.mu.Unlock()

	r.attempt(ctx, token)
}

func (r *TokenRegistrar) attempt(ctx context.Context, token string) {
	if ctx.Err() != nil {
		return
	}
	r.mu.Lock()
	if r.closed || token != r.lastToken || r.attempts >= maxRegisterAttempts {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	// Resolve the credential before consuming an attempt: triggers that
	// arrive while signed out must not eat into the retry budget, or the
	// registrar would stay silent after the user signs in.
	tok, err := r.Session.Token(ctx)
	if err != nil {
		r.Logger.Debug("token registration skipped: not authenticated")
		return
	}

	r.mu.Lock()
	if r.closed || token != r.lastToken || r.attempts >= maxRegisterAttempts {
		r.mu.Unlock()
		return
	}
	r.attempts++
	attempt := r.attempts
	r.mu.Unlock()

	callCtx := backend.WithToken(ctx, tok)

	err = r.Backend.RegisterToken(callCtx, token)
	if err != nil && backend.StatusCode(err) == http.StatusInternalServerError {
		// Some backend versions only accept the older request shape.
		err = r.Backend.RegisterTokenLegacy(callCtx, token)
	}
	if err == nil {
		r.Session.SetPushToken(token)
		r.mu.Lock()
		r.attempts = 0
		r.mu.Unlock()
		r.Logger.Info("push token registered")
		return
	}

	r.Logger.Warn("push token registration failed",
		zap.Int("attempt", attempt), zap.Error(err))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || token != r.lastToken || r.attempts >= maxRegisterAttempts {
		return
	}
	delay := r.BaseDelay * (1 << attempt)
	r.timer = time.AfterFunc(delay, func() {
		r.attempt(ctx, token)
	})
}

// Close cancels any pending retry. Called when the owning session is torn down.
func (r *TokenRegistrar) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
