package backend

import (
	"context"

	"haulaway/models"
)

// CredentialSource supplies the bearer credential for backend calls. The
// session layer implements it; an empty token means the session is gone.
type CredentialSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the set of backend REST operations the engine consumes.
type Client interface {
	// CreatePayment submits an order to the payment-creation endpoint and
	// returns the durable PaymentRecord the backend created for it.
	CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentRecord, error)

	// GetQuote asks the quote calculator for a price estimate.
	GetQuote(ctx context.Context, req models.QuoteRequest) (*models.Quote, error)

	// GetPaymentByOrder looks up the PaymentRecord by the client-generated
	// order id.
	GetPaymentByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error)

	// GetPaymentByReference looks up the PaymentRecord by the human-readable
	// reference code, used as the fallback key after a failed id lookup.
	GetPaymentByReference(ctx context.Context, referenceCode string) (*models.PaymentRecord, error)

	// UpdateJobStatus requests a status change on a payment record.
	UpdateJobStatus(ctx context.Context, paymentID string, status models.OrderStatus) error

	// UploadConfirmationImage patches the completion-proof URL onto the record.
	UploadConfirmationImage(ctx context.Context, paymentID, url string) error

	// GetTrucks fetches the vehicle catalogue.
	GetTrucks(ctx context.Context) ([]models.Vehicle, error)

	// SubmitRating submits a 1-5 rating for a completed order.
	SubmitRating(ctx context.Context, orderID string, rating int) error

	// RegisterToken registers the device push token for the signed-in user.
	RegisterToken(ctx context.Context, token string) error

	// RegisterTokenLegacy is the alternate request shape some backend
	// versions require; tried once after RegisterToken fails with a 500.
	RegisterTokenLegacy(ctx context.Context, token string) error
}
