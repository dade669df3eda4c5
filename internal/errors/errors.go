package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Client errors
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Collaborator errors
	ErrCodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	ErrCodeCommitFetchFailed ErrorCode = "COMMIT_FETCH_FAILED"
	ErrCodeEmptyResponse     ErrorCode = "EMPTY_RESPONSE"

	// Platform errors
	ErrCodeClientNotConnected ErrorCode = "CLIENT_NOT_CONNECTED"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeMessageSendFailed  ErrorCode = "MESSAGE_SEND_FAILED"

	// Server errors
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCodeForError(code),
	}
}

// Wrap wraps an existing error with application context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCodeForError(code),
		Err:        err,
	}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: getStatusCodeForError(code),
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// getStatusCodeForError maps error codes to HTTP status codes
func getStatusCodeForError(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeClientNotConnected, ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeGenerationFailed, ErrCodeCommitFetchFailed, ErrCodeEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return New(ErrCodeValidationFailed, message)
}

// InvalidRequest creates an invalid request error
func InvalidRequest(message string) *AppError {
	return New(ErrCodeInvalidRequest, message)
}

// GenerationFailed wraps a failure of the language-model backend
func GenerationFailed(err error) *AppError {
	return Wrap(err, ErrCodeGenerationFailed, "Response generation failed")
}

// CommitFetchFailed wraps a failure of the commit listing backend
func CommitFetchFailed(err error) *AppError {
	return Wrap(err, ErrCodeCommitFetchFailed, "Failed to fetch commits")
}

// EmptyResponse is returned when a backend answers without any usable payload
func EmptyResponse(backend string) *AppError {
	return New(ErrCodeEmptyResponse, fmt.Sprintf("%s returned no choices", backend))
}

// ClientNotConnected creates a client not connected error
func ClientNotConnected(platform string) *AppError {
	return New(ErrCodeClientNotConnected, fmt.Sprintf("%s client is not connected", platform))
}

// ConnectionFailed creates a connection failed error
func ConnectionFailed(platform string, err error) *AppError {
	return Wrapf(err, ErrCodeConnectionFailed, "Failed to connect to %s", platform)
}

// MessageSendFailed creates a message send failed error
func MessageSendFailed(err error) *AppError {
	return Wrap(err, ErrCodeMessageSendFailed, "Failed to send message")
}
