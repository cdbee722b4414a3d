// Package errors provides structured errors with codes for the user
// administration API.
//
// Every outcome the user service can report is an *Error carrying an
// ErrorCode, and every code has exactly one HTTP status, so handlers never
// need to inspect messages.
//
// # Basic Usage
//
//	import "github.com/semmi1986/SB-keyclock/pkg/errors"
//
//	err := errors.MissingRequired("email", "password")
//	err := errors.UserAlreadyExists(username)
//	err := errors.ProviderFailure(keycloakErr, "create user")
//
// # Error Codes
//
// Validation:
//   - ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeMissingRequired → 400
//
// Identity:
//   - ErrCodeUserNotFound → 404
//   - ErrCodeUserAlreadyExists → 409
//
// Provider:
//   - ErrCodeProviderFailure → 500
//
// Unknown codes and plain Go errors map to 500.
//
// # Error Inspection
//
//	if errors.GetCode(err) == errors.ErrCodeUserNotFound {
//		// unknown id
//	}
//
//	status := errors.HTTPStatus(err)
//
// Wrapped errors keep working with the standard library:
//
//	err := errors.ProviderFailure(ctx.Err(), "get user")
//	stderrors.Is(err, context.DeadlineExceeded) // true
package errors
