package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/apperrors"
)

// respondOK writes the success envelope with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// respondCreated writes the success envelope with a 201 status
func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// respondMessage writes a success envelope with no payload
func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

// respondError maps a service error kind to an HTTP status. Storage and
// IO failures hide their cause; their detail belongs in the logs, not
// the response.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict:
		status = http.StatusConflict
	case apperrors.KindState:
		status = http.StatusUnprocessableEntity
	case apperrors.KindUnauthorized:
		status = http.StatusUnauthorized
	default:
		message = "Internal server error"
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondBadRequest reports a malformed request body
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}
