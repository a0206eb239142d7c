package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Store errors
	ErrStoreOpen  ErrorCode = "STORE_OPEN"
	ErrStoreQuery ErrorCode = "STORE_QUERY"

	// Dataset errors
	ErrDatasetNotFound ErrorCode = "DATASET_NOT_FOUND"
	ErrDatasetCreate   ErrorCode = "DATASET_CREATE"
	ErrDatasetUpdate   ErrorCode = "DATASET_UPDATE"
	ErrDatasetDelete   ErrorCode = "DATASET_DELETE"
	ErrDatasetPurge    ErrorCode = "DATASET_PURGE"

	// Fixture lifecycle errors
	ErrFixtureSetup      ErrorCode = "FIXTURE_SETUP"
	ErrFixtureTeardown   ErrorCode = "FIXTURE_TEARDOWN"
	ErrFixtureBodyExited ErrorCode = "FIXTURE_BODY_EXITED"
)

// DsError represents a structured error with code and details
type DsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DsError) Unwrap() error {
	return e.Wrapped
}

// Is matches any *DsError carrying the same code.
func (e *DsError) Is(target error) bool {
	var targetErr *DsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DsError with the given code and message
func New(code ErrorCode, message string) *DsError {
	return &DsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DsError {
	return &DsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DsError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &DsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message. A nil err yields nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &DsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DsError) WithDetail(key string, value interface{}) *DsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether any error in err's tree carries code
func IsErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &DsError{Code: code})
}

// GetErrorCode returns the outermost error code, or ErrUnknown if err is not a DsError
func GetErrorCode(err error) ErrorCode {
	var dsErr *DsError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DsError
func GetErrorDetails(err error) map[string]interface{} {
	var dsErr *DsError
	if errors.As(err, &dsErr) {
		return dsErr.Details
	}
	return nil
}
