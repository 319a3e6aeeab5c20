// File: services/proof/resolver.go
package proof

import (
	"context"
	"fmt"
	"io"

	"haulaway/backend"
	"haulaway/models"
	"haulaway/services/session"
	"haulaway/services/storage"

	"go.uber.org/zap"
)

const uploadFolder = "proofs"

// UploadError reports a failure in the two-step proof upload pipeline. Prior
// cached proof state is left intact when it occurs.
type UploadError struct {
	Step string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("proof upload failed at %s: %v", e.Step, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Resolver produces the best-available URL for a completion-proof photograph
// and keeps both caches (in-memory session cache, persisted store) warm so a
// cold start can show the artifact before the first poll returns.
type Resolver struct {
	Backend backend.Client
	Store   Store
	Storage storage.StorageService
	Logger  *zap.Logger
}

func NewResolver(bk backend.Client, store Store, storageSvc storage.StorageService, logger *zap.Logger) *Resolver {
	return &Resolver{Backend: bk, Store: store, Storage: storageSvc, Logger: logger}
}

// Resolve walks the priority chain, first non-empty wins: explicit caller
// value, primary record field, legacy record field, in-memory session cache,
// persisted cache. On success the value is written back to both caches.
func (r *Resolver) Resolve(ctx context.Context, sess *session.Context, orderID, explicit string, rec *models.PaymentRecord) (string, bool) {
	url := explicit
	if url == "" && rec != nil {
		url = rec.ConfirmationURL
	}
	if url == "" && rec != nil {
		url = rec.ConfirmationURLAlt
	}
	if url == "" {
		if cached, ok := sess.ProofURL(orderID); ok {
			url = cached
		}
	}
	if url == "" {
		cached, err := r.Store.GetProofURL(ctx, orderID)
		if err != nil {
			r.Logger.Debug("proof cache read failed", zap.String("orderId", orderID), zap.Error(err))
		}
		url = cached
	}
	if url == "" {
		return "", false
	}

	sess.SetProofURL(orderID, url)
	if err := r.Store.SetProofURL(ctx, orderID, url); err != nil {
		r.Logger.Warn("proof cache write failed", zap.String("orderId", orderID), zap.Error(err))
	}
	return url, true
}

// Upload runs the two-step acquisition pipeline: push the raw image to the
// file host for a public URL, then patch that URL onto the PaymentRecord.
// When paymentID is not yet known locally it is resolved by order id first.
// No step ever deletes an already-cached proof URL.
func (r *Resolver) Upload(ctx context.Context, sess *session.Context, orderID, paymentID string, image io.Reader) (string, error) {
	url, _, err := r.Storage.Upload(ctx, image, uploadFolder)
	if err != nil {
		return "", &UploadError{Step: "file-host upload", Err: err}
	}

	if paymentID == "" {
		rec, err := r.Backend.GetPaymentByOrder(ctx, orderID)
		if err != nil {
			return "", &UploadError{Step: "payment lookup", Err: err}
		}
		paymentID = rec.PaymentID
	}

	if err := r.Backend.UploadConfirmationImage(ctx, paymentID, url); err != nil {
		return "", &UploadError{Step: "record patch", Err: err}
	}

	sess.SetProofURL(orderID, url)
	if err := r.Store.SetProofURL(ctx, orderID, url); err != nil {
		r.Logger.Warn("proof cache write failed", zap.String("orderId", orderID), zap.Error(err))
	}
	return url, nil
}
