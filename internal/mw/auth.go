package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"parking-slot-backend/config"
	"parking-slot-backend/internal/auth"
)

// Context keys set by the Auth middleware.
const (
	ctxUserIDKey = "auth_user_id"
	ctxRoleKey   = "auth_role"
)

// Auth validates a bearer token and seeds the request context with the
// caller's identity. Handlers downstream trust this identity without
// re-verifying credentials.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		claims, err := auth.ParseToken(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller has the given
// role. Must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRoleKey) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient privileges"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's identifier from the context.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserIDKey)
}
