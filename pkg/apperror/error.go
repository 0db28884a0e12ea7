package apperror

import "recruit-cv/pkg/apperror/status"

// ErrorResponse is the standardized HTTP error payload: a stable code the
// client can map, plus a human-readable message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string { return e.Message }

func New(code status.Code, message string) *ErrorResponse {
	return &ErrorResponse{Code: string(code), Message: message}
}
