package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"medibook/config"

	"github.com/gin-gonic/gin"
)

// AdminKeyMiddleware guards the admin surface with the static API key from
// configuration.
func AdminKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.AppConfig.AdminAPIKey
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access is not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(tokenString), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
