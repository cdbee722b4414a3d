package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/semmi1986/SB-keyclock/pkg/errors"
	"github.com/semmi1986/SB-keyclock/pkg/keycloak"
)

// UserService creates and reads users through the identity provider
type UserService struct {
	provider keycloak.Provider
}

func NewUserService(provider keycloak.Provider) *UserService {
	return &UserService{
		provider: provider,
	}
}

// CreateUser creates an enabled user with a permanent password.
//
// Returns the id assigned by the provider, or uuid.Nil when the provider did
// not report one. A taken username or email yields ErrCodeUserAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, req UserCreationRequest) (uuid.UUID, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return uuid.Nil, pkgerrors.MissingRequired(missing...)
	}

	resp, err := s.provider.CreateUser(ctx, ToUserRepresentation(req))
	if err != nil {
		slog.Error("Failed to create user", "user", req, "err", err)
		return uuid.Nil, pkgerrors.ProviderFailure(err, "create user")
	}

	switch {
	case resp.Successful():
		id := idFromLocation(resp.Location)
		slog.Info("User created", "user", req, "id", id)
		return id, nil
	case resp.StatusCode == http.StatusConflict:
		return uuid.Nil, pkgerrors.UserAlreadyExists(req.Username)
	default:
		slog.Error("Identity provider rejected user creation", "user", req, "status", resp.StatusCode)
		return uuid.Nil, pkgerrors.ProviderFailure(nil, "create user").WithDetail("status", resp.StatusCode)
	}
}

// GetUserByID returns the profile of a user with its realm roles and groups.
// Either all three lookups succeed or an error is returned.
func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (UserProfile, error) {
	userID := id.String()

	rep, err := s.provider.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, keycloak.ErrUserNotFound) {
			return UserProfile{}, pkgerrors.UserNotFound(userID)
		}
		slog.Error("Failed to get user", "id", userID, "err", err)
		return UserProfile{}, pkgerrors.ProviderFailure(err, "get user")
	}

	roles, err := s.provider.GetRealmRoleMappings(ctx, userID)
	if err != nil {
		slog.Error("Failed to get realm roles", "id", userID, "err", err)
		return UserProfile{}, pkgerrors.ProviderFailure(err, "get realm roles")
	}

	groups, err := s.provider.GetGroupMemberships(ctx, userID)
	if err != nil {
		slog.Error("Failed to get groups", "id", userID, "err", err)
		return UserProfile{}, pkgerrors.ProviderFailure(err, "get groups")
	}

	return ToUserProfile(rep, roles, groups), nil
}

// idFromLocation parses the last path segment of a Location header
func idFromLocation(location string) uuid.UUID {
	location = strings.TrimRight(location, "/")
	if location == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(location[strings.LastIndex(location, "/")+1:])
	if err != nil {
		return uuid.Nil
	}
	return id
}
