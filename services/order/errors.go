package order

import "errors"

// ErrOrderNotFound signals the order is unknown to this session.
var ErrOrderNotFound = errors.New("order: not found in session")

// ErrUnsupportedMethod rejects a submission with an unrecognized payment method.
var ErrUnsupportedMethod = errors.New("order: unsupported payment method")

// ErrCancelNotAllowed rejects a client cancel outside the Processing state.
var ErrCancelNotAllowed = errors.New("order: cancellation only allowed while processing")

// ErrRatingUnavailable rejects rating interaction before the order completes.
var ErrRatingUnavailable = errors.New("order: rating only available after completion")

// ErrPaymentPending signals a gateway order whose invoice has not been paid;
// there is no PaymentRecord to poll yet.
var ErrPaymentPending = errors.New("order: payment not finalized yet")
