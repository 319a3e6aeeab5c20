package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"haulaway/models"

	"haulaway/backend"

	"go.uber.org/zap"
)

// ErrQuoteNotChargeable rejects a quote whose amount and total are both
// non-positive; no invoice is created for it.
var ErrQuoteNotChargeable = errors.New("payment: quote carries no chargeable amount")

// ErrNoHeldQuote signals that no live quote exists for the order; the
// checkout was abandoned or the quote expired.
var ErrNoHeldQuote = errors.New("payment: no held quote for order")

// DefaultPaymentService is the production PaymentService.
type DefaultPaymentService struct {
	Backend    backend.Client
	Quotes     QuoteStore
	Invoices   InvoiceProvider
	Logger     *zap.Logger
	SuccessURL string
	CancelURL  string
}

func (s *DefaultPaymentService) SubmitCash(ctx context.Context, ord *models.Order) (*models.PaymentRecord, error) {
	rec, err := s.Backend.CreatePayment(ctx, buildCreateRequest(ord, nil))
	if err != nil {
		return nil, fmt.Errorf("cash route: %w", err)
	}
	s.Logger.Info("cash payment created",
		zap.String("orderId", ord.ID), zap.String("paymentId", rec.PaymentID))
	return rec, nil
}

func (s *DefaultPaymentService) BeginGateway(ctx context.Context, ord *models.Order) (string, error) {
	quote, err := s.Backend.GetQuote(ctx, models.QuoteRequest{
		OrderID:       ord.ID,
		WasteCategory: ord.WasteCategory,
		WeightKg:      ord.WeightKg,
		Latitude:      ord.Latitude,
		Longitude:     ord.Longitude,
	})
	if err != nil {
		return "", fmt.Errorf("gateway route: quote request: %w", err)
	}
	if !quote.Chargeable() {
		return "", ErrQuoteNotChargeable
	}
	quote.RequestedAt = time.Now()

	// The quote lives client-side only from here until the invoice is paid;
	// it is never sent back to the backend as a write.
	if err := s.Quotes.Hold(ctx, *quote); err != nil {
		return "", fmt.Errorf("gateway route: hold quote: %w", err)
	}

	charge := quote.Total
	if charge <= 0 {
		charge = quote.Amount
	}
	checkoutURL, err := s.Invoices.CreateInvoice(ctx, InvoiceRequest{
		OrderID:       ord.ID,
		Amount:        charge,
		CustomerName:  ord.CustomerName,
		CustomerEmail: ord.CustomerEmail,
		SuccessURL:    callbackURL(s.SuccessURL, ord.ID),
		CancelURL:     callbackURL(s.CancelURL, ord.ID),
	})
	if err != nil {
		// The order remains unsubmitted from the backend's point of view.
		if derr := s.Quotes.Discard(ctx, ord.ID); derr != nil {
			s.Logger.Warn("failed to discard quote after invoice failure",
				zap.String("orderId", ord.ID), zap.Error(derr))
		}
		return "", fmt.Errorf("gateway route: create invoice: %w", err)
	}

	s.Logger.Info("gateway invoice created",
		zap.String("orderId", ord.ID), zap.Float64("amount", charge))
	return checkoutURL, nil
}

func (s *DefaultPaymentService) FinalizeGateway(ctx context.Context, ord *models.Order) (*models.PaymentRecord, error) {
	quote, err := s.Quotes.Get(ctx, ord.ID)
	if err != nil {
		return nil, fmt.Errorf("gateway finalize: load quote: %w", err)
	}
	if quote == nil {
		return nil, ErrNoHeldQuote
	}

	rec, err := s.Backend.CreatePayment(ctx, buildCreateRequest(ord, quote))
	if err != nil {
		return nil, fmt.Errorf("gateway finalize: %w", err)
	}

	if err := s.Quotes.Discard(ctx, ord.ID); err != nil {
		s.Logger.Warn("failed to discard folded quote",
			zap.String("orderId", ord.ID), zap.Error(err))
	}
	s.Logger.Info("gateway payment finalized",
		zap.String("orderId", ord.ID), zap.String("paymentId", rec.PaymentID))
	return rec, nil
}

func (s *DefaultPaymentService) AbandonGateway(ctx context.Context, orderID string) error {
	return s.Quotes.Discard(ctx, orderID)
}

// buildCreateRequest assembles the payment-creation payload. The quote is nil
// on the cash route; on the gateway finalization it supplies the figures and
// assignment the backend folds into the durable record.
func buildCreateRequest(ord *models.Order, quote *models.Quote) models.CreatePaymentRequest {
	req := models.CreatePaymentRequest{
		OrderID:       ord.ID,
		ReferenceCode: ord.ReferenceCode,
		CustomerName:  ord.CustomerName,
		CustomerPhone: ord.CustomerPhone,
		Address:       ord.Address,
		Latitude:      ord.Latitude,
		Longitude:     ord.Longitude,
		WasteCategory: ord.WasteCategory,
		WeightKg:      ord.WeightKg,
		PaymentMethod: string(ord.Method),
		Notes:         ord.Notes,
	}
	if quote != nil {
		req.Amount = quote.Amount
		req.Total = quote.Total
		req.VehicleID = quote.VehicleID
		req.OperatorID = quote.OperatorID
	}
	return req
}

func callbackURL(base, orderID string) string {
	return base + "?orderId=" + orderID
}
