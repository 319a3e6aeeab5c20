package order

import (
	"context"
	"sync"
	"time"

	"haulaway/backend"
	"haulaway/models"
	"haulaway/services/session"

	"go.uber.org/zap"
)

const (
	// PollInterval is the fixed cadence of status fetches.
	PollInterval = 30 * time.Second
	// MinRequestSpacing is the minimum gap between fetches for the same
	// order id unless a forced refresh is requested.
	MinRequestSpacing = 30 * time.Second
)

// RecordSink receives successfully fetched payment records.
type RecordSink interface {
	ApplyRecord(ctx context.Context, rec *models.PaymentRecord)
}

// StatusPoller periodically fetches the authoritative PaymentRecord for one
// order. Fetches never overlap and never repeat faster than MinRequestSpacing,
// except for explicit forced refreshes (screen resume, post-mutation).
// Transient failures are logged and swallowed; the last known state stands.
type StatusPoller struct {
	Backend  backend.Client
	Session  *session.Context
	Logger   *zap.Logger
	Interval time.Duration
	Spacing  time.Duration

	// Now is overridable for tests.
	Now func() time.Time

	mu       sync.Mutex
	inFlight bool
	cancel   context.CancelFunc
}

// NewStatusPoller builds a poller with the production interval and spacing.
func NewStatusPoller(bk backend.Client, sess *session.Context, logger *zap.Logger) *StatusPoller {
	return &StatusPoller{
		Backend:  bk,
		Session:  sess,
		Logger:   logger,
		Interval: PollInterval,
		Spacing:  MinRequestSpacing,
		Now:      time.Now,
	}
}

// Start begins polling for the order, with an immediate forced refresh. It
// replaces any previous run. The loop exits when ctx is cancelled or Stop is
// called; in-flight responses arriving after that are discarded.
func (p *StatusPoller) Start(ctx context.Context, ord *models.Order, sink RecordSink) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		p.FetchLatestStatus(ctx, ord, sink, true)

		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.FetchLatestStatus(ctx, ord, sink, false)
			}
		}
	}()
}

// Stop cancels the polling timer. In-flight requests are allowed to complete
// but their results are dropped.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// FetchLatestStatus issues a single status fetch, subject to the in-flight
// guard and, unless force is set, the minimum spacing per order id. Returns
// whether a network request was actually issued. The request timestamp is
// recorded regardless of outcome. A failed lookup by order id is retried once
// by reference code before giving up for this cycle.
func (p *StatusPoller) FetchLatestStatus(ctx context.Context, ord *models.Order, sink RecordSink, force bool) bool {
	now := p.Now()

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return false
	}
	if !force && now.Sub(p.Session.LastRequest(ord.ID)) < p.Spacing {
		p.mu.Unlock()
		return false
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.Session.MarkRequest(ord.ID, p.Now())
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	token, err := p.Session.Token(ctx)
	if err != nil {
		p.Logger.Debug("status poll skipped: no credential", zap.String("orderId", ord.ID))
		return true
	}
	callCtx := backend.WithToken(ctx, token)

	rec, err := p.Backend.GetPaymentByOrder(callCtx, ord.ID)
	if err != nil && ord.ReferenceCode != "" {
		rec, err = p.Backend.GetPaymentByReference(callCtx, ord.ReferenceCode)
	}
	if err != nil {
		p.Logger.Debug("status poll failed",
			zap.String("orderId", ord.ID), zap.Error(err))
		return true
	}

	if ctx.Err() != nil {
		// Owner is gone; discard the late result.
		return true
	}
	sink.ApplyRecord(ctx, rec)
	return true
}
