package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emiilyxiia/microservices-3/store"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondServiceError maps the store failure taxonomy onto HTTP statuses.
// Anything untyped is a store availability problem and surfaces as 503.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		RespondError(c, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		RespondError(c, err.Error(), http.StatusConflict)
	default:
		RespondError(c, "store unavailable", http.StatusServiceUnavailable)
	}
}
