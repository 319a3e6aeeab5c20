package handlers

import (
	"context"
	"net/http"

	"haulaway/middleware"
	"haulaway/services/notification"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeviceHandler accepts push-token updates from the device.
type DeviceHandler struct {
	Registrars *notification.RegistrarSet
	Logger     *zap.Logger
}

func NewDeviceHandler(registrars *notification.RegistrarSet, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{Registrars: registrars, Logger: logger}
}

type registerTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterToken triggers (re-)registration of the device push token. The
// registrar retries with backoff in the background; the response only
// acknowledges the trigger.
func (h *DeviceHandler) RegisterToken(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid token payload", err.Error())
		return
	}

	// Detached from the request so backoff retries survive it; session
	// teardown cancels them instead.
	go h.Registrars.For(sess).Register(context.WithoutCancel(c.Request.Context()), req.Token)
	c.JSON(http.StatusAccepted, gin.H{"status": "registration triggered"})
}
