package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeValidation indicates client-side validation rejected the input
	// before any network call was made.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeHTTPStatus indicates the backend answered with a non-2xx status.
	ErrCodeHTTPStatus ErrorCode = "http_status"
	// ErrCodeDecode indicates a response or persisted record failed schema decoding.
	ErrCodeDecode ErrorCode = "decode"
	// ErrCodeCanceled indicates the operation was canceled by its caller.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeUnauthorized indicates the backend rejected the session credentials.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeNotFound indicates a resource or persisted key was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError is the structured error used across the client. It carries the
// error taxonomy (validation / http failure / cancellation / decode failure)
// so components can branch on category without string matching.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type.
	Code ErrorCode
	// Message is a human-readable error message.
	Message string
	// Cause is the underlying error that caused this error (optional).
	Cause error
	// Issues holds the individual human-readable validation messages
	// (validation errors only). Message joins them for display.
	Issues []string
	// Status holds the HTTP status code (http_status errors only).
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a validation error from a list of human-readable issues.
// The display message is the issues joined with "; ".
func Validation(issues []string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: strings.Join(issues, "; "),
		Issues:  issues,
	}
}

// Validationf creates a single-issue validation error with a formatted message.
func Validationf(format string, args ...any) *AppError {
	msg := fmt.Sprintf(format, args...)
	return &AppError{
		Code:    ErrCodeValidation,
		Message: msg,
		Issues:  []string{msg},
	}
}

// HTTPStatus creates an error for a non-2xx backend response.
func HTTPStatus(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeHTTPStatus,
		Message: message,
		Status:  status,
	}
}

// Decode creates a decode error for a payload that failed schema validation.
func Decode(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeDecode,
		Message: message,
		Cause:   cause,
	}
}

// Canceled wraps a context cancellation so callers can suppress it uniformly.
func Canceled(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeCanceled,
		Message: "operation canceled",
		Cause:   cause,
	}
}

// Unauthorized creates an error for rejected credentials.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsHTTPStatus checks if an error is an HTTPStatus error.
func IsHTTPStatus(err error) bool {
	return isCode(err, ErrCodeHTTPStatus)
}

// IsDecode checks if an error is a Decode error.
func IsDecode(err error) bool {
	return isCode(err, ErrCodeDecode)
}

// IsCanceled reports whether the error is a cancellation, either the tagged
// AppError kind or a raw context error from a torn-down request.
func IsCanceled(err error) bool {
	if isCode(err, ErrCodeCanceled) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetStatus returns the HTTP status from an error, or zero when absent.
func GetStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// GetIssues returns the validation issue list from an error, or nil.
func GetIssues(err error) []string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Issues
	}
	return nil
}
