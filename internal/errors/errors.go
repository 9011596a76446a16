package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message.
// Messages are short, stable strings suitable for client display.
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets wrapped copies of a predefined error match the original
// under errors.Is.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if errors.As(target, &domainErr) {
		return e.Code == domainErr.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Account errors
	ErrAccountExists = NewDomainError("ACCOUNT_EXISTS", "Account already exists")

	// Authentication errors
	ErrInvalidEmail      = NewDomainError("INVALID_EMAIL", "Invalid email")
	ErrEmailNotConfirmed = NewDomainError("EMAIL_NOT_CONFIRMED", "Email not confirmed")
	ErrInvalidPassword   = NewDomainError("INVALID_PASSWORD", "Invalid password")
	ErrInvalidToken      = NewDomainError("INVALID_TOKEN", "Could not validate credentials")
	ErrInvalidTokenScope = NewDomainError("INVALID_TOKEN_SCOPE", "Invalid scope for token")
	ErrInvalidRefresh    = NewDomainError("INVALID_REFRESH_TOKEN", "Invalid refresh token")

	// Verification errors
	ErrVerification      = NewDomainError("VERIFICATION_ERROR", "Verification error")
	ErrInvalidEmailToken = NewDomainError("INVALID_EMAIL_TOKEN", "Invalid token for email verification")

	// Contact errors
	ErrContactNotFound = NewDomainError("CONTACT_NOT_FOUND", "Contact not found")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes.
// This should only be used in the handler/presentation layer.
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "VERIFICATION_ERROR":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "INVALID_EMAIL", "EMAIL_NOT_CONFIRMED", "INVALID_PASSWORD",
		"INVALID_TOKEN", "INVALID_TOKEN_SCOPE", "INVALID_REFRESH_TOKEN":
		return http.StatusUnauthorized

	// 404 Not Found
	case "CONTACT_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "ACCOUNT_EXISTS":
		return http.StatusConflict

	// 422 Unprocessable Entity
	case "INVALID_EMAIL_TOKEN":
		return http.StatusUnprocessableEntity

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts the client-facing error message.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
