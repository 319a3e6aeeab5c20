package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// StripeInvoiceProvider creates hosted Stripe Checkout sessions as the
// external payment invoice. The global stripe.Key is set at startup.
type StripeInvoiceProvider struct {
	Currency string
	Logger   *zap.Logger
}

func NewStripeInvoiceProvider(logger *zap.Logger) *StripeInvoiceProvider {
	return &StripeInvoiceProvider{Currency: "usd", Logger: logger}
}

func (p *StripeInvoiceProvider) CreateInvoice(ctx context.Context, req InvoiceRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(toMinorUnits(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Waste pickup " + req.OrderID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.OrderID),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	p.Logger.Info("stripe checkout session created",
		zap.String("orderId", req.OrderID), zap.String("sessionId", sess.ID))
	return sess.URL, nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
