package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrRunInProgress is returned when an ingestion run is requested while another is active
	ErrRunInProgress = errors.New("ingestion run already in progress")

	// ErrIdentityNotFound is returned when no identity row exists for an address or name
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrFeedDisabled is returned by the activity feed when no API key is configured
	ErrFeedDisabled = errors.New("activity feed disabled")
)

// DefaultRetryAfter is used when a rate-limited response carries no usable Retry-After
const DefaultRetryAfter = 5 * time.Second

// Error codes carried in run results and API error bodies
const (
	CodeAuth        = "AUTH_ERROR"
	CodeRateLimited = "RATE_LIMITED"
	CodeService     = "SERVICE_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeInProgress  = "RUN_IN_PROGRESS"
	CodeInternal    = "INTERNAL_ERROR"
)

// AuthError is a rejected or malformed credential. Never retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "auth error: " + e.Message
}

// RateLimitedError carries the server advertised wait before the next attempt
type RateLimitedError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %s", e.RetryAfter, e.Message)
}

// ServiceError is a non-2xx upstream response. StatusCode 0 means no response was received.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return "service unavailable: " + e.Message
	}
	return fmt.Sprintf("service error (status %d): %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is transient
func (e *ServiceError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= http.StatusInternalServerError
}

// ValidationError is malformed caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsRetryable reports whether err, or anything it wraps, is worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return true
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return se.Retryable()
	}

	return false
}

// RetryAfter returns the server advertised wait carried by err, if any
func RetryAfter(err error) (time.Duration, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	return 0, false
}

// ErrorCode maps an error onto its taxonomy code
func ErrorCode(err error) string {
	var (
		ae *AuthError
		rl *RateLimitedError
		se *ServiceError
		ve *ValidationError
	)
	switch {
	case errors.Is(err, ErrRunInProgress):
		return CodeInProgress
	case errors.As(err, &ae):
		return CodeAuth
	case errors.As(err, &rl):
		return CodeRateLimited
	case errors.As(err, &se):
		return CodeService
	case errors.As(err, &ve):
		return CodeValidation
	default:
		return CodeInternal
	}
}
