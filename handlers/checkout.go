package handlers

import (
	"net/http"

	"haulaway/middleware"
	"haulaway/services/order"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler receives the gateway redirect callbacks. The success path
// is what turns a held quote into a durable PaymentRecord.
type CheckoutHandler struct {
	Svc    order.OrderService
	Logger *zap.Logger
}

func NewCheckoutHandler(svc order.OrderService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Logger: logger}
}

// Success finalizes the payment from the held quote after the invoice was paid.
func (h *CheckoutHandler) Success(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}
	orderID := c.Query("orderId")
	if orderID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing orderId", "")
		return
	}

	rec, err := h.Svc.FinalizeCheckout(c.Request.Context(), sess, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.Logger.Info("checkout finalized",
		zap.String("orderId", orderID), zap.String("paymentId", rec.PaymentID))
	c.JSON(http.StatusOK, rec)
}

// Cancel discards the held quote after an abandoned checkout.
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}
	orderID := c.Query("orderId")
	if orderID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing orderId", "")
		return
	}

	if err := h.Svc.AbandonCheckout(c.Request.Context(), sess, orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "abandoned"})
}
