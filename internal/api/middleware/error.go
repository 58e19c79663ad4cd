package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/pkg/validator"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorHandler returns middleware for handling errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			handleError(c, err)
		}
	}
}

// handleError maps domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	var domainErrors domain.ValidationErrors
	var requestErrors validator.ValidationErrors

	switch {
	// Expired resources are reported exactly like missing ones.
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrExpired):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "Resource already exists",
		})
	case errors.As(err, &domainErrors):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Validation failed",
			Details: domainErrors,
		})
	case errors.As(err, &requestErrors):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Validation failed",
			Details: requestErrors,
		})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, errType, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}
