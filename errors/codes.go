package errors

// ErrorCode identifies a standard failure category surfaced to callers.
type ErrorCode string

const (
	ErrorCode_INVALID_INPUT      ErrorCode = "INVALID_INPUT"
	ErrorCode_FILE_NOT_FOUND     ErrorCode = "FILE_NOT_FOUND"
	ErrorCode_PARSE_ERROR        ErrorCode = "PARSE_ERROR"
	ErrorCode_API_ERROR          ErrorCode = "API_ERROR"
	ErrorCode_RATE_LIMIT         ErrorCode = "RATE_LIMIT"
	ErrorCode_TIMEOUT            ErrorCode = "TIMEOUT"
	ErrorCode_RESOURCE_NOT_FOUND ErrorCode = "RESOURCE_NOT_FOUND"
	ErrorCode_INTERNAL           ErrorCode = "INTERNAL_ERROR"
)

// String returns the wire representation of the code.
func (c ErrorCode) String() string {
	return string(c)
}
