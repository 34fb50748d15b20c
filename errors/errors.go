package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the normalized error type every backend-specific failure is
// mapped into before it reaches a domain service.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Retryable reports whether the error's code allows a retry.
func (e AppError) Retryable() bool {
	return e.Code.Retryable()
}

func ErrValidation(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_VALIDATION,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_NOT_FOUND,
		Message:   fmt.Sprintf("%s not found", resource),
		Timestamp: time.Now(),
	}
}

func ErrPermissionDenied(action string) AppError {
	return AppError{
		HTTPCode:  http.StatusForbidden,
		Code:      ErrorCode_PERMISSION_DENIED,
		Message:   fmt.Sprintf("Permission denied: %s", action),
		Timestamp: time.Now(),
	}
}

func ErrAlreadyExists(resource string) AppError {
	return AppError{
		HTTPCode:  http.StatusConflict,
		Code:      ErrorCode_ALREADY_EXISTS,
		Message:   fmt.Sprintf("%s already exists", resource),
		Timestamp: time.Now(),
	}
}

func ErrNetwork(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusBadGateway,
		Code:      ErrorCode_NETWORK,
		Message:   "Transient connectivity failure",
		Timestamp: time.Now(),
	}
}

func ErrTimeout(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusGatewayTimeout,
		Code:      ErrorCode_TIMEOUT,
		Message:   "Operation timed out",
		Timestamp: time.Now(),
	}
}

func ErrResourceExhausted(service string) AppError {
	return AppError{
		HTTPCode:  http.StatusTooManyRequests,
		Code:      ErrorCode_RESOURCE_EXHAUSTED,
		Message:   "Quota exceeded, retry with backoff",
		Timestamp: time.Now(),
	}.WithDetail("service", service)
}

// ErrPartialFailure reports a bulk operation that partially succeeded.
// It is surfaced for logging, never retried as a whole.
func ErrPartialFailure(operation string, failed, total int) AppError {
	return AppError{
		HTTPCode:  http.StatusMultiStatus,
		Code:      ErrorCode_PARTIAL_FAILURE,
		Message:   fmt.Sprintf("%s partially failed: %d of %d items", operation, failed, total),
		Timestamp: time.Now(),
	}
}

func ErrUnknown(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_UNKNOWN,
		Message:   "Internal error",
		Timestamp: time.Now(),
	}
}

// CodeOf extracts the ErrorCode from any error, UNKNOWN when the chain
// carries no AppError.
func CodeOf(err error) ErrorCode {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCode_UNKNOWN
}

// IsRetryable reports whether err may be retried. Errors that never passed
// through the facade boundary default to retryable (UNKNOWN).
func IsRetryable(err error) bool {
	return CodeOf(err).Retryable()
}

// HTTPStatus maps any error to the transport status the boundary layer
// should answer with.
func HTTPStatus(err error) int {
	var appErr AppError
	if stderrors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}
