package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/boardsense/internal/logger"
)

// Error is an API error rendered as {"error": "..."} with its HTTP status.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an API error with the given status code.
func NewError(code int, message string) Error {
	return Error{Code: code, Message: message}
}

// ErrBadRequest is returned for unparseable request bodies.
func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid JSON request")
}

// ValidationError reports field-level validation failures. It keeps the
// {"error": "..."} shape every non-2xx response carries, with the per-field
// detail alongside.
type ValidationError struct {
	Code    int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"errors"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a 422 validation error.
func NewValidationError(fields map[string]string) ValidationError {
	return ValidationError{
		Code:    fiber.StatusUnprocessableEntity,
		Message: "validation failed",
		Fields:  fields,
	}
}

// ErrorHandler converts errors into JSON responses.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Code).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	logger.Warn("request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).
		JSON(NewError(fiber.StatusInternalServerError, err.Error()))
}
