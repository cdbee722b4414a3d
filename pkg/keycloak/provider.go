package keycloak

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by GetUser when the provider does not know the id
var ErrUserNotFound = errors.New("user not found")

// Provider is the administrative surface of the identity provider used by
// the user service.
//
// CreateUser reports provider-side rejections (409 and friends) through
// ProviderResponse.StatusCode with a nil error. A non-nil error means the
// provider could not be asked at all.
type Provider interface {
	CreateUser(ctx context.Context, rep UserRepresentation) (ProviderResponse, error)
	GetUser(ctx context.Context, id string) (UserRepresentation, error)
	GetRealmRoleMappings(ctx context.Context, id string) ([]string, error)
	GetGroupMemberships(ctx context.Context, id string) ([]string, error)
}
