package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParamUUID reads a UUID path parameter, responding 422 when malformed.
func ParamUUID(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		RespondError(c, name+" must be a valid UUID", http.StatusUnprocessableEntity)
		return "", false
	}
	return v, true
}

// ParamIndex reads an integer path parameter. Range checking is the store's
// business (a negative index is simply out of range, i.e. 404).
func ParamIndex(c *gin.Context, name string) (int, bool) {
	idx, err := strconv.Atoi(c.Param(name))
	if err != nil {
		RespondError(c, name+" must be an integer", http.StatusUnprocessableEntity)
		return 0, false
	}
	return idx, true
}
