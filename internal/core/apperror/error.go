// Package apperror provides structured error handling for the back office.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to callers.
const (
	// Infrastructure errors (5xx)
	CodeInternal        = "INTERNAL_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeCompletedUnsettled     = "COMPLETED_UNSETTLED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the application.
// It implements the error interface and carries structured details
// for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field names, indexes, ids)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMissingZone creates the validation error for a line item with no
// storage zone assigned. Index is the zero-based position of the first
// offending item in list order.
func NewMissingZone(itemIndex int) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    "line item has no storage zone assigned",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"reason": "MISSING_ZONE", "itemIndex": itemIndex},
	}
}

// NewInvalidUnit creates the validation error for a display unit that is
// not in the registered conversion table.
func NewInvalidUnit(unit string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf("unknown unit %q", unit),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"reason": "INVALID_UNIT", "unit": unit},
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInvalidTransition creates the error for a status change that is not
// allowed from the current state. The stored transaction is unchanged.
func NewInvalidTransition(from, event string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("event %q is not allowed in status %q", event, from),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"status": from, "event": event},
	}
}

// NewExternalService wraps a failed collaborator call.
func NewExternalService(service string, err error) *AppError {
	return &AppError{
		Code:       CodeExternalService,
		Message:    fmt.Sprintf("%s call failed", service),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"service": service},
		Err:        err,
	}
}

// NewCompletedUnsettled marks the special failure mode where the
// transaction status was written as COMPLETE but the supplier debt
// settlement failed afterwards. Operators must reconcile manually.
func NewCompletedUnsettled(transactionID, supplierID string, err error) *AppError {
	return &AppError{
		Code:       CodeCompletedUnsettled,
		Message:    "transaction completed but supplier debt was not settled",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"transaction_id": transactionID,
			"supplier_id":    supplierID,
		},
		Err: err,
	}
}

// NewConcurrentModification creates an optimistic locking error.
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "Record was modified by another user. Please refresh and try again.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409).
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsInvalidTransition checks if error is CodeInvalidTransition.
func IsInvalidTransition(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeInvalidTransition
	}
	return false
}

// IsValidation checks if error is CodeValidation.
func IsValidation(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeValidation
	}
	return false
}

// IsCompletedUnsettled checks if error is CodeCompletedUnsettled.
func IsCompletedUnsettled(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeCompletedUnsettled
	}
	return false
}
