package order

import (
	"context"
	"io"

	"haulaway/models"
	"haulaway/services/session"
)

// OrderInput is the submission payload from the app.
type OrderInput struct {
	CustomerName  string  `json:"customerName" binding:"required"`
	CustomerPhone string  `json:"customerPhone" binding:"required"`
	CustomerEmail string  `json:"customerEmail"`
	Latitude      float64 `json:"latitude" binding:"required"`
	Longitude     float64 `json:"longitude" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	WasteCategory string  `json:"wasteCategory" binding:"required"`
	WeightKg      float64 `json:"weightKg" binding:"required"`
	PaymentMethod string  `json:"paymentMethod" binding:"required"`
	Notes         string  `json:"notes"`
}

// SubmitResult is what a submission produces: the order itself, plus either
// the immediate PaymentRecord (cash route) or the checkout URL the user must
// visit (gateway route).
type SubmitResult struct {
	Order       *models.Order         `json:"order"`
	Record      *models.PaymentRecord `json:"record,omitempty"`
	CheckoutURL string                `json:"checkoutUrl,omitempty"`
}

// OrderService drives the order lifecycle for a session: submission,
// polling, cancellation, proof, rating and the checkout callbacks.
type OrderService interface {
	Submit(ctx context.Context, sess *session.Context, input OrderInput) (*SubmitResult, error)

	// Activate resumes polling for the order (screen became active), with an
	// immediate forced refresh. Deactivate stops the timer outright.
	Activate(ctx context.Context, sess *session.Context, orderID string) error
	Deactivate(sess *session.Context, orderID string)

	// Cancel requests cancellation from the backend; only permitted while
	// the order is still Processing. On success the local state is forced to
	// Cancelled without waiting for the next poll.
	Cancel(ctx context.Context, sess *session.Context, orderID string) error

	// FinalizeCheckout and AbandonCheckout are the gateway redirect callbacks.
	FinalizeCheckout(ctx context.Context, sess *session.Context, orderID string) (*models.PaymentRecord, error)
	AbandonCheckout(ctx context.Context, sess *session.Context, orderID string) error

	// View returns the latest record joined with the assigned vehicle.
	View(ctx context.Context, sess *session.Context, orderID string) (*models.PaymentView, error)

	// UploadProof runs the proof acquisition pipeline and forces a refresh.
	UploadProof(ctx context.Context, sess *session.Context, orderID string, image io.Reader) (string, error)
	// ProofURL resolves the best-available proof URL for display.
	ProofURL(ctx context.Context, sess *session.Context, orderID string) (string, bool)

	// SubmitRating selects and submits a rating for a completed order.
	SubmitRating(ctx context.Context, sess *session.Context, orderID string, n int) error
	// RatingStatus reports the rating state and whether rating collection is
	// currently revealed.
	RatingStatus(sess *session.Context, orderID string) (models.RatingState, int, bool)

	// CloseSession tears down every watch owned by the session.
	CloseSession(sess *session.Context)
}
