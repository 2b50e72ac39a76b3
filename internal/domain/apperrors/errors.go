package apperrors

import (
	"fmt"
	"net/http"
)

// Error codes returned to the boundary layer. Stable, machine readable.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNetwork    = "NETWORK_ERROR"
	CodeScraping   = "SCRAPE_FAILED"
)

// AppError represents a typed pipeline error with HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// NewValidationError creates a 400-class error for invalid caller input.
func NewValidationError(message, detail string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Detail:  detail,
		Status:  http.StatusBadRequest,
	}
}

// NewNetworkError creates a 503-class error for transport failures after
// retry exhaustion.
func NewNetworkError(message, detail string) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: message,
		Detail:  detail,
		Status:  http.StatusServiceUnavailable,
	}
}

// NewScrapingError creates a 500-class error for reachable origins with
// absent or malformed data.
func NewScrapingError(message, detail string) *AppError {
	return &AppError{
		Code:    CodeScraping,
		Message: message,
		Detail:  detail,
		Status:  http.StatusInternalServerError,
	}
}
