package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewSessionExpired marks an embedded upstream session that has lapsed while the
// outer credential is still valid. Callers must re-login; the gateway never
// re-authenticates with end-user credentials on its own.
func NewSessionExpired() error {
	return NewDomainError("SESSION_EXPIRED", "session expired, please log in again", http.StatusUnauthorized, nil)
}

func NewUpstreamError(status int, message string) error {
	return &DomainError{
		Code:       "UPSTREAM_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"upstream_status": status},
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// BookingErrorMessage translates an upstream booking status code into a
// user-facing message for the write path.
func BookingErrorMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid reservation data"
	case http.StatusUnauthorized:
		return "session expired, please log in again"
	case http.StatusForbidden:
		return "you are not allowed to book this resource"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "the resource is already booked for this time"
	case http.StatusUnprocessableEntity:
		return "reservation data not acceptable"
	case http.StatusInternalServerError:
		return "booking server error"
	default:
		return "error while processing the reservation"
	}
}

// AuthErrorMessage translates an upstream authentication status code.
func AuthErrorMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "invalid credentials"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusNotFound:
		return "user not found"
	case http.StatusInternalServerError:
		return "authentication server error"
	default:
		return "error during authentication"
	}
}
