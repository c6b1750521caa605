package models

import (
	"errors"
	"fmt"
)

// Error codes carried in API error bodies. Clients branch on the HTTP status;
// the code is there for logs and dashboards.
const (
	ErrCodeInvalidURL   = "INVALID_URL"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeFetchTimeout = "FETCH_TIMEOUT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecipeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type RecipeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *RecipeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RecipeError) Unwrap() error {
	return e.Err
}

// NewRecipeError creates a new RecipeError.
func NewRecipeError(code, message string, err error) *RecipeError {
	return &RecipeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *RecipeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// IsInvalidURL reports whether err is (or wraps) an INVALID_URL RecipeError.
func IsInvalidURL(err error) bool {
	return hasCode(err, ErrCodeInvalidURL)
}

// IsFetchError reports whether err is (or wraps) a fetch failure or fetch timeout.
func IsFetchError(err error) bool {
	return hasCode(err, ErrCodeFetchFailed) || hasCode(err, ErrCodeFetchTimeout)
}

func hasCode(err error, code string) bool {
	var re *RecipeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
