package handlers

import (
	"net/http"

	"haulaway/middleware"
	"haulaway/services/order"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RatingHandler exposes the one-shot post-completion rating.
type RatingHandler struct {
	Svc    order.OrderService
	Logger *zap.Logger
}

func NewRatingHandler(svc order.OrderService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{Svc: svc, Logger: logger}
}

type submitRatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Submit selects and submits the rating in one step.
func (h *RatingHandler) Submit(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid rating payload", err.Error())
		return
	}

	if err := h.Svc.SubmitRating(c.Request.Context(), sess, c.Param("id"), req.Rating); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}

// Status reports the rating state and whether rating collection is revealed.
func (h *RatingHandler) Status(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	state, selected, available := h.Svc.RatingStatus(sess, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"state":     state.String(),
		"rating":    selected,
		"available": available,
	})
}
