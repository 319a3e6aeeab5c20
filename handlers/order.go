package handlers

import (
	"net/http"

	"haulaway/middleware"
	"haulaway/services/order"
	"haulaway/services/tasks"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// OrderHandler exposes the order lifecycle operations.
type OrderHandler struct {
	Svc    order.OrderService
	Tasks  *asynq.Client
	Logger *zap.Logger
}

func NewOrderHandler(svc order.OrderService, tasksClient *asynq.Client, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Tasks: tasksClient, Logger: logger}
}

// Submit creates the order and routes it through the selected payment path.
func (h *OrderHandler) Submit(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	var input order.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid order payload", err.Error())
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), sess, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Activate resumes status polling for the order (screen became active) and
// queues a best-effort proof precache so the artifact can show up before the
// first poll completes.
func (h *OrderHandler) Activate(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}
	orderID := c.Param("id")

	if err := h.Svc.Activate(c.Request.Context(), sess, orderID); err != nil {
		respondServiceError(c, err)
		return
	}

	if task, opts, err := tasks.NewPrecacheProofTask(tasks.PrecacheProofPayload{
		SessionID: sess.SessionID(),
		OrderID:   orderID,
	}); err == nil {
		if _, err := h.Tasks.Enqueue(task, opts...); err != nil {
			h.Logger.Debug("failed to enqueue proof precache", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "polling"})
}

// Deactivate stops the polling timer (screen no longer active).
func (h *OrderHandler) Deactivate(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}
	h.Svc.Deactivate(sess, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// Cancel requests cancellation while the order is still Processing.
func (h *OrderHandler) Cancel(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	if err := h.Svc.Cancel(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// View returns the latest payment record joined with the assigned vehicle.
func (h *OrderHandler) View(c *gin.Context) {
	sess, ok := middleware.EngineSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "No session", "")
		return
	}

	view, err := h.Svc.View(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
