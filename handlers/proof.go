package handlers

import (
	"net/http"

	"haulaway/middleware"
	"haulaway/services/order"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProofHandler exposes the completion-proof pipeline.
type ProofHandler struct {
	Svc    order.OrderService
	Logger *zap.Logger
}

func NewProofHandler(svc order.OrderService, logger *zap.Logger) *ProofHandler {
	return &ProofHandler{Svc: svc, Logger: logger}
}

// Upload accepts a multipart image, pushes it to the file host and patches
// the resulting URL onto the payment record.
func (h *ProofHandler) Upload(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}
	orderID := c.Param("id")

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing image file", err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable image file", err.Error())
		return
	}
	defer file.Close()

	url, err := h.Svc.UploadProof(c.Request.Context(), sess, orderID, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proofUrl": url})
}

// Resolve returns the best-available proof URL, or 404 when none exists yet.
func (h *ProofHandler) Resolve(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	url, found := h.Svc.ProofURL(c.Request.Context(), sess, c.Param("id"))
	if !found {
		utils.JSONError(c, http.StatusNotFound, "No proof available", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"proofUrl": url})
}
