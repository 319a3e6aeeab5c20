package payment

import (
	"context"

	"haulaway/models"
)

// InvoiceRequest describes the external checkout invoice to create for a
// gateway-route order.
type InvoiceRequest struct {
	OrderID       string
	Amount        float64
	CustomerName  string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// InvoiceProvider is the external payment-invoice collaborator. CreateInvoice
// returns the hosted checkout URL the user is sent to.
type InvoiceProvider interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (string, error)
}

// QuoteStore holds at most one live quote per order, client-side only, with a
// TTL so abandoned quotes expire instead of lingering forever. A held quote is
// never written to the backend.
type QuoteStore interface {
	Hold(ctx context.Context, q models.Quote) error
	// Get returns nil without error when no quote is held (expired or
	// never requested).
	Get(ctx context.Context, orderID string) (*models.Quote, error)
	Discard(ctx context.Context, orderID string) error
}

// PaymentService orchestrates the two payment routes.
type PaymentService interface {
	// SubmitCash sends the order straight to the payment-creation endpoint;
	// the backend computes the final amount and returns the durable record.
	SubmitCash(ctx context.Context, ord *models.Order) (*models.PaymentRecord, error)

	// BeginGateway requests a quote, holds it client-side and creates the
	// external invoice. Returns the checkout URL. No PaymentRecord exists
	// until the invoice is paid.
	BeginGateway(ctx context.Context, ord *models.Order) (string, error)

	// FinalizeGateway folds the held quote into a durable PaymentRecord
	// after the invoice was paid, then discards the quote.
	FinalizeGateway(ctx context.Context, ord *models.Order) (*models.PaymentRecord, error)

	// AbandonGateway discards the held quote after a cancelled checkout.
	AbandonGateway(ctx context.Context, orderID string) error
}
