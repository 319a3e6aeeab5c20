// File: services/rating/coordinator.go
package rating

import (
	"context"
	"errors"
	"sync"

	"haulaway/backend"
	"haulaway/models"

	"go.uber.org/zap"
)

// ErrInvalidRating rejects a selection outside 1..5.
var ErrInvalidRating = errors.New("rating: value must be between 1 and 5")

// ErrNoRatingSelected rejects a submit before any selection was made.
var ErrNoRatingSelected = errors.New("rating: nothing selected")

// ErrSubmissionInFlight rejects a second submit while one is running.
var ErrSubmissionInFlight = errors.New("rating: submission already in flight")

// Coordinator allows exactly one rating submission per order. Once submitted
// the rating is locked for the life of the order; a restart restores the lock
// from the PaymentRecord's rating field without resubmitting.
type Coordinator struct {
	Backend backend.Client
	Logger  *zap.Logger

	mu         sync.Mutex
	orderID    string
	selected   int
	state      models.RatingState
	submitting bool
}

func NewCoordinator(orderID string, bk backend.Client, logger *zap.Logger) *Coordinator {
	return &Coordinator{Backend: bk, Logger: logger, orderID: orderID}
}

// Select records the chosen rating. After a successful submission this is a
// no-op: the locked rating stays unchanged.
func (c *Coordinator) Select(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == models.RatingSubmitted {
		return nil
	}
	if n < 1 || n > 5 {
		return ErrInvalidRating
	}
	c.selected = n
	c.state = models.RatingSelected
	return nil
}

// Submit sends the selected rating once. A repeat call after success is
// rejected locally, without a network call. On failure the coordinator
// re-enables itself for another attempt and records no partial state.
func (c *Coordinator) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state == models.RatingSubmitted {
		c.mu.Unlock()
		return nil
	}
	if c.state != models.RatingSelected {
		c.mu.Unlock()
		return ErrNoRatingSelected
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.submitting = true
	n := c.selected
	c.mu.Unlock()

	err := c.Backend.SubmitRating(ctx, c.orderID, n)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil && !errors.Is(err, backend.ErrConflict) {
		c.Logger.Warn("rating submission failed",
			zap.String("orderId", c.orderID), zap.Error(err))
		return err
	}
	// A conflict means the backend already holds this rating; lock anyway.
	c.state = models.RatingSubmitted
	return nil
}

// Restore adopts the submitted state from a fetched PaymentRecord that
// already carries a rating, so a restarted screen does not resubmit.
func (c *Coordinator) Restore(rec *models.PaymentRecord) {
	if rec == nil || rec.Rating <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = rec.Rating
	c.state = models.RatingSubmitted
}

// State returns the current rating state and the selected value.
func (c *Coordinator) State() (models.RatingState, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.selected
}
