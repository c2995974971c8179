package domain

import (
	"errors"
	"fmt"
	"time"
)

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput     = "INVALID_INPUT"
	ErrNotFoundCode     = "NOT_FOUND"
	ErrRateLimit        = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidation       = "VALIDATION_ERROR"
	ErrModelInit        = "MODEL_INITIALIZATION_ERROR"
	ErrUnknownCondition = "UNKNOWN_CONDITION"
	ErrAnalysis         = "ANALYSIS_ERROR"
	ErrCatalog          = "CATALOG_ERROR"
)

// AnalysisFailedMessage is the user-facing message for any analysis failure.
const AnalysisFailedMessage = "Failed to analyze symptoms"

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ModelInitializationError is returned when the classifier parameters cannot
// be constructed.
type ModelInitializationError struct {
	Reason string
	Err    error
}

func (e *ModelInitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model initialization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model initialization failed: %s", e.Reason)
}

func (e *ModelInitializationError) Unwrap() error { return e.Err }

// UnknownConditionError is returned when a lookup table has no entry for a
// condition the classifier produced.
type UnknownConditionError struct {
	Condition string
	Table     string
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("condition %q has no entry in %s", e.Condition, e.Table)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *UnknownConditionError) Is(target error) bool {
	return target == ErrNotFound
}

// AnalysisError is the only error type returned by an analyzer. The cause is
// kept for operators; callers show Message only.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Code returns the most specific error code for the wrapped cause.
func (e *AnalysisError) Code() string {
	var (
		initErr    *ModelInitializationError
		unknownErr *UnknownConditionError
		validErr   *ValidationError
	)
	switch {
	case errors.As(e.Err, &initErr):
		return ErrModelInit
	case errors.As(e.Err, &unknownErr):
		return ErrUnknownCondition
	case errors.As(e.Err, &validErr):
		return ErrValidation
	default:
		return ErrAnalysis
	}
}

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewAnalysisError wraps a pipeline failure.
func NewAnalysisError(err error) *AnalysisError {
	return &AnalysisError{Message: AnalysisFailedMessage, Err: err}
}
