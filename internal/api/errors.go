package api

import (
	"fmt"
	"net/http"
)

// NetworkError indicates a transport failure; no HTTP response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError indicates rejected credentials or a rejected/expired token.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auth rejected (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auth rejected (%d)", e.StatusCode)
}

// ValidationError indicates a payload the service (or the decode boundary)
// rejected as malformed or incomplete.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("invalid payload: %s", e.Message)
	}
	return fmt.Sprintf("payload rejected (%d): %s", e.StatusCode, e.Message)
}

// ServiceError is any non-2xx response not classified as auth or validation.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service error (%d)", e.StatusCode)
}

// classifyStatus maps a non-2xx status code to the typed error taxonomy.
func classifyStatus(status int, message string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: status, Message: message}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{StatusCode: status, Message: message}
	default:
		return &ServiceError{StatusCode: status, Message: message}
	}
}
