package handlers

import (
	"log"
	"net/http"

	"boba-pos/internal/apierr"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP responses. Typed errors carry their
// message to the client; anything else is a 500 with details logged
// server-side only.
func writeError(c *gin.Context, err error) {
	if apiErr, ok := apierr.As(err); ok {
		status := http.StatusBadRequest
		switch apiErr.Code {
		case "not_found":
			status = http.StatusNotFound
		case "unauthorized":
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": apiErr.Code, "message": apiErr.Message})
		return
	}

	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal server error"})
}
