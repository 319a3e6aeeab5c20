package handlers

import (
	"context"
	"net/http"
	"time"

	"haulaway/middleware"
	"haulaway/services/notification"
	"haulaway/services/order"
	"haulaway/services/session"
	"haulaway/services/tasks"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SessionHandler establishes and tears down engine sessions. The bearer
// credential itself is minted by the external auth collaborator; this
// endpoint only stores it and spins up the per-session engine state.
type SessionHandler struct {
	Manager    *session.Manager
	OrderSvc   order.OrderService
	Registrars *notification.RegistrarSet
	Tasks      *asynq.Client
	Logger     *zap.Logger
}

type establishSessionRequest struct {
	UserID     string `json:"userId" binding:"required"`
	Token      string `json:"token" binding:"required"`
	DeviceID   string `json:"deviceId" binding:"required"`
	DeviceName string `json:"deviceName"`
	PushToken  string `json:"pushToken"`
}

// Establish creates the session, warms the vehicle catalogue in the
// background and registers the push token when one is supplied.
func (h *SessionHandler) Establish(c *gin.Context) {
	var req establishSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid session payload", err.Error())
		return
	}

	sessionID := uuid.New().String()
	sess := session.Session{
		SessionID:  sessionID,
		UserID:     req.UserID,
		Token:      req.Token,
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		CreatedAt:  time.Now(),
	}
	if err := h.Manager.Store().Save(c.Request.Context(), sess); err != nil {
		respondServiceError(c, err)
		return
	}

	engineCtx := h.Manager.Obtain(sessionID)

	// Best-effort preload; failure never blocks sign-in.
	if task, opts, err := tasks.NewPreloadTrucksTask(tasks.PreloadTrucksPayload{SessionID: sessionID}); err == nil {
		if _, err := h.Tasks.Enqueue(task, opts...); err != nil {
			h.Logger.Warn("failed to enqueue truck preload", zap.Error(err))
		}
	}

	if req.PushToken != "" {
		// Detached from the request: retries are cancelled by session
		// teardown, not by the request ending.
		go h.Registrars.For(engineCtx).Register(context.WithoutCancel(c.Request.Context()), req.PushToken)
	}

	c.JSON(http.StatusCreated, gin.H{"sessionId": sessionID})
}

// Terminate discards the session and all engine state owned by it: watches,
// polling timers and scheduled token retries.
func (h *SessionHandler) Terminate(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}
	sessionID := sess.SessionID()

	h.OrderSvc.CloseSession(sess)
	h.Registrars.Close(sessionID)
	h.Manager.Discard(sessionID)
	if err := h.Manager.Store().Delete(c.Request.Context(), sessionID); err != nil {
		h.Logger.Warn("failed to delete session", zap.String("sessionId", sessionID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}
