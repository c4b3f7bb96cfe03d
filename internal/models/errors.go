package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes used across the API.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL_ERROR"
	CodeNotAuthenticated  = "NOT_AUTHENTICATED"
	CodeAuthExpired       = "AUTH_EXPIRED"
	CodeDuplicateGrant    = "DUPLICATE_GRANT"
	CodeAccessCheckFailed = "ACCESS_CHECK_FAILED"
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewNotAuthenticatedError reports an operation that requires a session.
func NewNotAuthenticatedError(message string) *AppError {
	return &AppError{
		Code:    CodeNotAuthenticated,
		Message: message,
	}
}

// NewAuthExpiredError reports a rejected access token that the client may be
// able to recover from by refreshing its session.
func NewAuthExpiredError() *AppError {
	return &AppError{
		Code:    CodeAuthExpired,
		Message: "Access token expired",
	}
}

// NewDuplicateGrantError reports a grant insert that violated the
// one-grant-per-(codeblock, user) invariant.
func NewDuplicateGrantError(codeblockID, userID uint) *AppError {
	return &AppError{
		Code:    CodeDuplicateGrant,
		Message: fmt.Sprintf("user %d already has access to codeblock %d", userID, codeblockID),
	}
}

// NewAccessCheckFailedError wraps a transient failure during grant
// evaluation. The resolver fails closed; this error is surfaced for
// logging and user notification.
func NewAccessCheckFailedError(err error) *AppError {
	return &AppError{
		Code:    CodeAccessCheckFailed,
		Message: "could not verify content access",
		Err:     err,
	}
}

// IsDuplicateGrant reports whether err carries the DUPLICATE_GRANT code.
func IsDuplicateGrant(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeDuplicateGrant
}

// RespondWithError creates a standardized error response.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
