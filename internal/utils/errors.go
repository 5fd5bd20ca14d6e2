package utils

import "github.com/gofiber/fiber/v2"

// APIError represents a structured API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Conflict creates a 409 error for duplicate resources
func Conflict(message string) *APIError {
	return NewAPIError("CONFLICT", message, fiber.StatusConflict)
}

// Unauthorized creates a 401 error for failed authentication
func Unauthorized(message string) *APIError {
	return NewAPIError("UNAUTHORIZED", message, fiber.StatusUnauthorized)
}

// Forbidden creates a 403 error for denied operations
func Forbidden(message string) *APIError {
	return NewAPIError("FORBIDDEN", message, fiber.StatusForbidden)
}

// NotFound creates a 404 error for missing resources
func NotFound(message string) *APIError {
	return NewAPIError("NOT_FOUND", message, fiber.StatusNotFound)
}

// BadRequest creates a 400 error for malformed input
func BadRequest(message string) *APIError {
	return NewAPIError("BAD_REQUEST", message, fiber.StatusBadRequest)
}

// Common API Errors
var (
	ErrInternalServer = NewAPIError("INTERNAL_SERVER_ERROR", "An unexpected error occurred", fiber.StatusInternalServerError)
)
