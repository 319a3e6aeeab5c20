package routes

import (
	"net/http"

	"haulaway/handlers"
	"haulaway/middleware"
	"haulaway/services/session"
	"haulaway/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP surface. Everything except session
// establishment and health requires an established session.
func RegisterRoutes(
	router *gin.Engine,
	manager *session.Manager,
	sessionHandler *handlers.SessionHandler,
	orderHandler *handlers.OrderHandler,
	checkoutHandler *handlers.CheckoutHandler,
	proofHandler *handlers.ProofHandler,
	ratingHandler *handlers.RatingHandler,
	deviceHandler *handlers.DeviceHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	api := router.Group("/api/v1")
	api.POST("/session", sessionHandler.Establish)

	authed := api.Group("")
	authed.Use(middleware.SessionAuthMiddleware(manager))
	{
		authed.DELETE("/session", sessionHandler.Terminate)

		authed.POST("/orders", orderHandler.Submit)
		authed.GET("/orders/:id", orderHandler.View)
		authed.POST("/orders/:id/poll", orderHandler.Activate)
		authed.DELETE("/orders/:id/poll", orderHandler.Deactivate)
		authed.POST("/orders/:id/cancel", orderHandler.Cancel)

		authed.GET("/checkout/success", checkoutHandler.Success)
		authed.GET("/checkout/cancel", checkoutHandler.Cancel)

		authed.POST("/orders/:id/proof", proofHandler.Upload)
		authed.GET("/orders/:id/proof", proofHandler.Resolve)

		authed.POST("/orders/:id/rating", ratingHandler.Submit)
		authed.GET("/orders/:id/rating", ratingHandler.Status)

		authed.POST("/devices/token", deviceHandler.RegisterToken)
	}
}
