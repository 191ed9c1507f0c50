package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific failure kind of the content pipeline.
type ErrorCode string

const (
	// ErrCodeTransport indicates the network request could not be completed.
	ErrCodeTransport ErrorCode = "TRANSPORT"
	// ErrCodeFetchStatus indicates a response arrived with a non-2xx status.
	ErrCodeFetchStatus ErrorCode = "FETCH_STATUS"
	// ErrCodeParse indicates the response body is not valid JSON.
	ErrCodeParse ErrorCode = "PARSE"
	// ErrCodeShape indicates the decoded payload is not a non-empty array.
	ErrCodeShape ErrorCode = "SHAPE"
	// ErrCodeFilter indicates an item filter expression failed to compile or evaluate.
	ErrCodeFilter ErrorCode = "FILTER"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// PipelineError represents a structured error raised while loading page content.
type PipelineError struct {
	Code    ErrorCode
	Message string
	URL     string
	Status  int
	Cause   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *PipelineError) GetCode() ErrorCode {
	return e.Code
}

// Transport creates a transport error for url.
func Transport(url string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeTransport,
		Message: fmt.Sprintf("request failed while fetching %s", url),
		URL:     url,
		Cause:   cause,
	}
}

// FetchStatus creates an error for a response received with a failure status.
func FetchStatus(url string, status int) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeFetchStatus,
		Message: fmt.Sprintf("HTTP %d while fetching %s", status, url),
		URL:     url,
		Status:  status,
	}
}

// Parse creates an error for a body that cannot be decoded.
func Parse(url string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeParse,
		Message: fmt.Sprintf("invalid JSON in %s", url),
		URL:     url,
		Cause:   cause,
	}
}

// Shape creates an error for a payload that is not the expected array.
func Shape(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeShape, Message: msg}
}

// Filter creates an error for a failing item filter.
func Filter(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeFilter, Message: msg, Cause: cause}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// IsCode checks if err, or any error it wraps, carries code.
func IsCode(err error, code ErrorCode) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a PipelineError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return defaultCode
}
