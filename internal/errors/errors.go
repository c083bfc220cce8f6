// Package errors defines stable error codes for sift failure modes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ListingFailed indicates a root directory could not be listed
	ListingFailed ErrorCode = "LISTING_FAILED"
	// ArtifactUnreadable indicates an artifact file could not be read
	ArtifactUnreadable ErrorCode = "ARTIFACT_UNREADABLE"
	// DecodeFailed indicates artifact bytes did not decode into a record
	DecodeFailed ErrorCode = "DECODE_FAILED"
	// FormatUnknown indicates a decoded record carries an unknown format tag
	FormatUnknown ErrorCode = "FORMAT_UNKNOWN"
	// SnapshotIO indicates a snapshot store read or write failed
	SnapshotIO ErrorCode = "SNAPSHOT_IO"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// SiftError carries an error code, a message, and an optional cause.
type SiftError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new SiftError
func New(code ErrorCode, message string, cause error) *SiftError {
	return &SiftError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new SiftError with a formatted message
func Newf(code ErrorCode, cause error, format string, args ...interface{}) *SiftError {
	return New(code, fmt.Sprintf(format, args...), cause)
}

// Error implements the error interface
func (e *SiftError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *SiftError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *SiftError) WithDetails(details interface{}) *SiftError {
	e.Details = details
	return e
}

// As is a convenience re-export of the standard library's errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is a convenience re-export of the standard library's errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// CodeOf extracts the error code from err, or InternalError if err is not
// a SiftError.
func CodeOf(err error) ErrorCode {
	var se *SiftError
	if As(err, &se) {
		return se.Code
	}
	return InternalError
}
