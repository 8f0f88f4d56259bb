package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeUnknown      ErrorCode = "COMMON_000"
	ErrCodeInternal     ErrorCode = "COMMON_001"
	ErrCodeInvalidInput ErrorCode = "COMMON_002"
	ErrCodeNotFound     ErrorCode = "COMMON_003"
	ErrCodeConflict     ErrorCode = "COMMON_004"
	ErrCodeUnavailable  ErrorCode = "COMMON_005"
	ErrCodeDatabase     ErrorCode = "COMMON_006"
	ErrCodeCache        ErrorCode = "COMMON_007"
	ErrCodeSerialization ErrorCode = "COMMON_008"

	// CodeOK is the sentinel returned by GetCode for a nil error.
	CodeOK ErrorCode = "OK"
)

// Deadline-engine error codes.
const (
	ErrCodeSectorNotFound     ErrorCode = "DDL_001"
	ErrCodePairingNotFound    ErrorCode = "DDL_002"
	ErrCodeOverrideMismatch   ErrorCode = "DDL_003"
	ErrCodeIterationCap       ErrorCode = "DDL_004"
	ErrCodeHolidaysUnavailable ErrorCode = "DDL_005"
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.  Client-error
// codes map to 4xx; Unavailable and Internal map to server errors.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeUnknown:       http.StatusInternalServerError,
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeUnavailable:   http.StatusServiceUnavailable,
	ErrCodeDatabase:      http.StatusInternalServerError,
	ErrCodeCache:         http.StatusInternalServerError,
	ErrCodeSerialization: http.StatusInternalServerError,

	ErrCodeSectorNotFound:      http.StatusNotFound,
	ErrCodePairingNotFound:     http.StatusNotFound,
	ErrCodeOverrideMismatch:    http.StatusBadRequest,
	ErrCodeIterationCap:        http.StatusInternalServerError,
	ErrCodeHolidaysUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status code for err: the mapped status of the
// first AppError code found in its chain, or 500 for foreign errors.
func HTTPStatus(err error) int {
	if status, ok := errorCodeHTTPStatus[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
