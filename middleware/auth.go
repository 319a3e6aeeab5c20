package middleware

import (
	"net/http"
	"strings"

	"haulaway/backend"
	"haulaway/services/session"

	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionKey is where the engine context is stored on the gin context.
	ContextSessionKey = "engineSession"
	// ContextSessionIDKey is where the session id is stored on the gin context.
	ContextSessionIDKey = "sessionID"
)

// SessionAuthMiddleware resolves the bearer session and binds its backend
// credential to the request context. A missing or expired session is a hard
// 401; there is no fallback credential of any kind.
func SessionAuthMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		sessionID := strings.TrimPrefix(authHeader, "Bearer ")
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		sess, err := manager.Store().Get(c.Request.Context(), sessionID)
		if err != nil || sess.Token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired or unknown",
			})
			return
		}

		engineCtx := manager.Obtain(sessionID)
		c.Set(ContextSessionKey, engineCtx)
		c.Set(ContextSessionIDKey, sessionID)
		c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), sess.Token))
		c.Next()
	}
}

// EngineSession extracts the engine context attached by SessionAuthMiddleware.
func EngineSession(c *gin.Context) (*session.Context, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Context)
	return sess, ok
}
