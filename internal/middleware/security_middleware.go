package middleware

import (
	"net/http"

	"boba-pos/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the /api group. It accepts either a staff JWT from
// /login or an OAuth session token, and stashes the caller's identity in the
// context for downstream handlers.
func AuthMiddleware(sessions *auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
			c.Abort()
			return
		}

		if claims, err := auth.ValidateToken(token); err == nil {
			c.Set("userID", claims.UserID)
			c.Set("role", claims.Role)
			c.Next()
			return
		}

		if sess, ok := sessions.Get(token); ok {
			c.Set("userID", sess.UserID)
			c.Set("role", sess.Role)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid or expired token"})
		c.Abort()
	}
}

// RequireRole is a secondary guard that checks for specific permissions
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != allowedRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "you do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}
