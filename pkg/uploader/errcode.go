package uploader

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// ErrorCode classifies a failed upload attempt in a stable way. The set is
// closed: every failure an attempt can produce maps to exactly one code, and
// the server speaks the same vocabulary in its {code, message} error payloads.
type ErrorCode string

const (
	CodeInvalidFileType  ErrorCode = "INVALID_FILE_TYPE"
	CodeFileSizeExceeded ErrorCode = "FILE_SIZE_EXCEEDED"
	CodeFileCorrupted    ErrorCode = "FILE_CORRUPTED"
	CodeNetworkTimeout   ErrorCode = "NETWORK_TIMEOUT"
	CodeNetworkError     ErrorCode = "NETWORK_ERROR"
	CodeServerError      ErrorCode = "SERVER_ERROR"
	CodeUnknownError     ErrorCode = "UNKNOWN_ERROR"
)

// ErrorCodes lists every member of the enumeration. Describe must cover all
// of them; the init check in describe.go enforces that at startup.
var ErrorCodes = []ErrorCode{
	CodeInvalidFileType,
	CodeFileSizeExceeded,
	CodeFileCorrupted,
	CodeNetworkTimeout,
	CodeNetworkError,
	CodeServerError,
	CodeUnknownError,
}

func (c ErrorCode) valid() bool {
	for _, known := range ErrorCodes {
		if c == known {
			return true
		}
	}
	return false
}

// ServerFailure is a structured error response from the upload endpoint:
// a non-2xx status and a best-effort decoded {code, message} body.
type ServerFailure struct {
	StatusCode int
	Code       string
	Message    string
}

func (f *ServerFailure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return "upload rejected by server"
}

// MapFailure classifies an arbitrary failure from an upload attempt.
// Precedence, highest first:
//
//  1. a server-declared code matching a known ErrorCode is used verbatim
//  2. an aborted or deadline-exceeded attempt is NETWORK_TIMEOUT
//  3. a transport-level fault (no structured response) is NETWORK_ERROR
//  4. a response status maps by convention: 5xx SERVER_ERROR, 413
//     FILE_SIZE_EXCEEDED, 415 INVALID_FILE_TYPE, 422 FILE_CORRUPTED
//  5. anything else is UNKNOWN_ERROR
func MapFailure(err error) ErrorCode {
	if err == nil {
		return CodeUnknownError
	}

	var sf *ServerFailure
	if errors.As(err, &sf) {
		if code := ErrorCode(sf.Code); code.valid() {
			return code
		}
		return mapStatus(sf.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CodeNetworkTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeNetworkTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return CodeNetworkError
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CodeNetworkError
	}

	return CodeUnknownError
}

func mapStatus(status int) ErrorCode {
	switch {
	case status >= 500:
		return CodeServerError
	case status == 413:
		return CodeFileSizeExceeded
	case status == 415:
		return CodeInvalidFileType
	case status == 422:
		return CodeFileCorrupted
	default:
		return CodeUnknownError
	}
}
