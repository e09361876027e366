// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInputBlocked     ErrorCode = "INPUT_BLOCKED"

	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderTimeout     ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeProviderAuthFailed  ErrorCode = "PROVIDER_AUTH_FAILED"

	ErrCodeModelParseFailed ErrorCode = "MODEL_PARSE_FAILED"
	ErrCodeSchemaViolation  ErrorCode = "SCHEMA_VIOLATION"
	ErrCodeOutputBlocked    ErrorCode = "OUTPUT_BLOCKED"

	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"
	ErrCodeAuthRequired ErrorCode = "AUTH_REQUIRED"
	ErrCodeAuthInvalid  ErrorCode = "AUTH_INVALID"

	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable input validation error.
// Details carry the field-level message; Message stays generic for clients.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid request input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputBlockedError creates a non-retryable input safety error.
func NewInputBlockedError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputBlocked,
		Message:   "Input cannot be processed",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError creates a retryable provider transport error.
func NewProviderUnavailableError(providerName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "AI provider request failed",
		Details:   fmt.Sprintf("provider: %s, error: %s", providerName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderTimeoutError creates a retryable provider timeout error.
func NewProviderTimeoutError(providerName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   "AI provider call timed out",
		Details:   fmt.Sprintf("provider: %s", providerName),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderAuthFailedError creates a non-retryable provider credential error.
func NewProviderAuthFailedError(providerName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderAuthFailed,
		Message:   "AI provider rejected credentials",
		Details:   fmt.Sprintf("provider: %s", providerName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelParseFailedError creates a non-retryable model output parse error.
// The raw model text is never placed in Details; it is logged server-side only.
func NewModelParseFailedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelParseFailed,
		Message:   "Model output could not be parsed",
		Details:   fmt.Sprintf("stage: %s, error: %s", stage, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaViolationError creates a non-retryable output schema error.
// This indicates a programming-contract violation, not a user error.
func NewSchemaViolationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaViolation,
		Message:   "Response failed output schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutputBlockedError creates a non-retryable output safety error.
func NewOutputBlockedError(categories []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputBlocked,
		Message:   "Generated content failed safety checks",
		Details:   fmt.Sprintf("categories: %s", strings.Join(categories, ",")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a non-retryable (client-side) rate limit error.
func NewRateLimitedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthRequiredError creates a non-retryable missing-token error.
func NewAuthRequiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthRequired,
		Message:   "Authentication required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthInvalidError creates a non-retryable invalid-token error.
func NewAuthInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthInvalid,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError creates a retryable storage error.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Storage backend error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable lookup error.
func NewNotFoundError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", kind),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:    http.StatusBadRequest,
	ErrCodeInputBlocked:        http.StatusBadRequest,
	ErrCodeProviderUnavailable: http.StatusInternalServerError,
	ErrCodeProviderTimeout:     http.StatusInternalServerError,
	ErrCodeProviderAuthFailed:  http.StatusInternalServerError,
	ErrCodeModelParseFailed:    http.StatusInternalServerError,
	ErrCodeSchemaViolation:     http.StatusInternalServerError,
	ErrCodeOutputBlocked:       http.StatusInternalServerError,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeAuthRequired:        http.StatusUnauthorized,
	ErrCodeAuthInvalid:         http.StatusUnauthorized,
	ErrCodeStoreUnavailable:    http.StatusInternalServerError,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// HTTPStatus returns the status code for an error, defaulting to 500.
func HTTPStatus(err error) int {
	if stdErr, ok := err.(*StandardError); ok {
		if status, exists := HTTPStatusMapping[stdErr.Code]; exists {
			return status
		}
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the safe, generic message for an error body.
// Internals (stack traces, provider identifiers, prompts) never leave the server.
func ClientMessage(err error) string {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Message
	}
	return "Unexpected error"
}

// ==========================
// 4. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryable checks if an error should be retried against a fallback.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "BLOCKED"):
		return "SAFETY"
	case strings.Contains(codeStr, "PROVIDER") || strings.Contains(codeStr, "MODEL"):
		return "AI"
	case strings.Contains(codeStr, "AUTH"):
		return "AUTH"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "NOT_FOUND"):
		return "STORAGE"
	case strings.Contains(codeStr, "SCHEMA"):
		return "CONTRACT"
	default:
		return "OTHER"
	}
}
