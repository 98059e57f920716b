package errors

import (
	"fmt"
	"net/http"
)

// AppError is the custom error type for the application
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
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

// General Errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidInput(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_INPUT,
		Message:  message,
	}
}

func ErrResourceNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_RESOURCE_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Transcript Errors

func ErrParseFailed(err error, filename string) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_PARSE_ERROR,
		Message:  "Failed to parse VTT transcript",
	}.WithDetail("filename", filename)
}

func ErrEmptyTranscript(filename string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_INPUT,
		Message:  "VTT content is empty",
	}.WithDetail("filename", filename)
}

// Snapshot Generation Errors

func ErrSnapshotFailed(err error, filename string) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Failed to generate snapshot",
	}.WithDetail("filename", filename)
}

// LLM Errors

func ErrLLMSampling(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_API_ERROR,
		Message:  "LLM sampling failed",
	}
}

func ErrLLMRateLimited(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_RATE_LIMIT,
		Message:  "LLM rate limit exceeded",
	}
}

func ErrLLMTimeout(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusGatewayTimeout,
		Code:     ErrorCode_TIMEOUT,
		Message:  "LLM request timed out",
	}
}

// Integration Errors

func ErrZoomAuthFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_API_ERROR,
		Message:  "Failed to authenticate with Zoom",
	}
}

func ErrZoomAPIFailed(endpoint string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_API_ERROR,
		Message:  "Zoom API request failed",
	}.WithDetail("endpoint", endpoint)
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}
