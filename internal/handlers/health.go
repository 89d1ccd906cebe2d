package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// Health is the liveness endpoint. No auth.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(startedAt).Seconds(),
		"environment": gin.Mode(),
	})
}

// APIInfo describes the API surface. No auth.
func APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to TableCraft API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":   "/health",
			"auth":     "/api/auth",
			"tasks":    "/api/tasks",
			"projects": "/api/projects",
			"users":    "/api/users",
			"ai":       "/api/ai",
		},
	})
}
