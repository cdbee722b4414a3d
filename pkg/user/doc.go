// Package user implements user administration on top of the identity
// provider: creating users and reading a user's profile with its realm roles
// and group memberships.
//
// Nothing is stored here. Every call goes to the keycloak.Provider and the
// outcome is reported as a *errors.Error whose code determines the HTTP
// status:
//
//   - ErrCodeMissingRequired: a required field of the request is empty
//   - ErrCodeUserAlreadyExists: the provider answered 409
//   - ErrCodeUserNotFound: the provider does not know the id
//   - ErrCodeProviderFailure: anything else, including transport errors
//
// Provider calls are never retried.
package user
