package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of failure independent of its message
type ErrorCode string

const (
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED"

	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserAlreadyExists ErrorCode = "USER_ALREADY_EXISTS"

	// The identity provider answered with something other than success,
	// conflict or not-found, or could not be reached at all.
	ErrCodeProviderFailure ErrorCode = "PROVIDER_FAILURE"
)

// Error is a structured error carrying a code, a message and optional details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message. Returns nil for a nil err.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetCode extracts the error code from an error.
// Returns ErrCodeInternal if the error is not a structured Error.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetDetails extracts the details from an error, nil if there are none
func GetDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// Message returns the message of a structured error, or err.Error() otherwise
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus returns the status code for any error, structured or not
func HTTPStatus(err error) int {
	return MapErrorCodeToHTTPStatus(GetCode(err))
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeMissingRequired:
		return http.StatusBadRequest

	case ErrCodeUserNotFound:
		return http.StatusNotFound

	case ErrCodeUserAlreadyExists:
		return http.StatusConflict

	case ErrCodeProviderFailure, ErrCodeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// UserNotFound reports an id the identity provider does not know
func UserNotFound(id string) *Error {
	return Newf(ErrCodeUserNotFound, "user not found: %s", id)
}

// UserAlreadyExists reports a username or email that is already taken
func UserAlreadyExists(username string) *Error {
	return Newf(ErrCodeUserAlreadyExists, "user already exists: %s", username)
}

// InvalidInput creates an "invalid input" error
func InvalidInput(field, reason string) *Error {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason))
}

// InvalidFormat reports a request body that could not be decoded
func InvalidFormat(err error) *Error {
	if err == nil {
		return New(ErrCodeInvalidFormat, "invalid request body")
	}
	return Wrap(err, ErrCodeInvalidFormat, "invalid request body").WithDetail("reason", err.Error())
}

// MissingRequired reports the required fields absent from a request
func MissingRequired(fields ...string) *Error {
	return New(ErrCodeMissingRequired, "missing required fields").WithDetail("fields", fields)
}

// ProviderFailure wraps a failed identity provider call
func ProviderFailure(err error, operation string) *Error {
	if err == nil {
		return New(ErrCodeProviderFailure, operation+" failed")
	}
	return Wrap(err, ErrCodeProviderFailure, operation+" failed")
}
