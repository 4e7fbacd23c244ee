package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GET /health
func Health(c *gin.Context) {
	RespondSuccess(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
