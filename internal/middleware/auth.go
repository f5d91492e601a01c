package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"import-service/internal/clients"
)

// AuthMiddleware extracts the caller's bearer credential and user identity
// headers. The token is opaque to this service: it is stored for pass-through
// to the directory services, never parsed or refreshed here (the gateway owns
// token validation and refresh-on-401).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth for health check endpoints
		if strings.HasPrefix(c.Request.URL.Path, "/health") ||
			strings.HasPrefix(c.Request.URL.Path, "/ready") {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Bearer token is required",
				},
			})
			c.Abort()
			return
		}

		c.Set("auth_token", strings.TrimPrefix(authHeader, "Bearer "))

		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		if userEmail := c.GetHeader("X-User-Email"); userEmail != "" {
			c.Set("user_email", userEmail)
		}

		c.Next()
	}
}

// GetAuthContext assembles the pass-through auth context for backend calls
func GetAuthContext(c *gin.Context) clients.AuthContext {
	return clients.AuthContext{
		Token:     c.GetString("auth_token"),
		TenantID:  c.GetString("tenant_id"),
		UserID:    c.GetString("user_id"),
		UserEmail: c.GetString("user_email"),
	}
}
