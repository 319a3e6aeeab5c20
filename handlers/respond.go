package handlers

import (
	"errors"
	"net/http"

	"haulaway/backend"
	"haulaway/services/order"
	"haulaway/services/payment"
	"haulaway/services/proof"
	"haulaway/services/rating"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps engine errors onto HTTP responses. Only
// user-initiated operations reach here; polling failures never do.
func respondServiceError(c *gin.Context, err error) {
	var uploadErr *proof.UploadError

	switch {
	case errors.Is(err, backend.ErrNoCredential):
		utils.JSONError(c, http.StatusUnauthorized, "Not signed in", err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		utils.JSONError(c, http.StatusNotFound, "Order not found", err.Error())
	case errors.Is(err, backend.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Record not found", err.Error())
	case errors.Is(err, order.ErrUnsupportedMethod),
		errors.Is(err, order.ErrCancelNotAllowed),
		errors.Is(err, order.ErrRatingUnavailable),
		errors.Is(err, order.ErrPaymentPending),
		errors.Is(err, payment.ErrQuoteNotChargeable),
		errors.Is(err, payment.ErrNoHeldQuote),
		errors.Is(err, rating.ErrInvalidRating),
		errors.Is(err, rating.ErrNoRatingSelected),
		errors.Is(err, rating.ErrSubmissionInFlight):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Request rejected", err.Error())
	case errors.As(err, &uploadErr):
		utils.JSONError(c, http.StatusBadGateway, "Proof upload failed", err.Error())
	case backend.IsTransient(err):
		utils.JSONError(c, http.StatusBadGateway, "Upstream unavailable", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Operation failed", err.Error())
	}
}
