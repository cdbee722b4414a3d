package keycloak

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/semmi1986/SB-keyclock/pkg/config"
)

// tokenRefreshMargin is how long before expiry a cached admin token is renewed
const tokenRefreshMargin = 30 * time.Second

// groupPageSize is the page size used when listing a user's groups
const groupPageSize = 100

// AdminClient implements Provider on top of the Keycloak admin REST API
type AdminClient struct {
	client *gocloak.GoCloak
	cfg    config.KeycloakConfig
	now    func() time.Time

	mu          sync.Mutex
	adminToken  string
	tokenExpiry time.Time
}

// NewAdminClient creates an AdminClient. No request is made until first use,
// see Connect for an eager check.
func NewAdminClient(cfg config.KeycloakConfig) *AdminClient {
	client := gocloak.NewClient(strings.TrimRight(cfg.URL, "/"))
	if cfg.Timeout > 0 {
		client.RestyClient().SetTimeout(cfg.Timeout)
	}
	return &AdminClient{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Token returns a valid admin access token, logging in again when the cached
// one is missing or about to expire.
func (c *AdminClient) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adminToken != "" && c.now().Before(c.tokenExpiry) {
		return c.adminToken, nil
	}

	var (
		jwt *gocloak.JWT
		err error
	)
	if c.cfg.UsesClientCredentials() {
		jwt, err = c.client.LoginClient(ctx, c.cfg.ClientID, c.cfg.ClientSecret, c.cfg.AdminRealm)
	} else {
		jwt, err = c.client.LoginAdmin(ctx, c.cfg.AdminUsername, c.cfg.AdminPassword, c.cfg.AdminRealm)
	}
	if err != nil {
		return "", fmt.Errorf("keycloak admin login: %w", err)
	}

	ttl := time.Duration(jwt.ExpiresIn) * time.Second
	if ttl > tokenRefreshMargin {
		ttl -= tokenRefreshMargin
	}
	c.adminToken = jwt.AccessToken
	c.tokenExpiry = c.now().Add(ttl)
	return c.adminToken, nil
}

// checkRejected drops the cached admin token when Keycloak answered 401 to a
// call made with it, so the next call logs in again. A token cached by a
// concurrent login in the meantime is left alone.
func (c *AdminClient) checkRejected(token string, err error) {
	var apiErr *gocloak.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusUnauthorized {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.adminToken == token {
		slog.Warn("keycloak rejected the cached admin token, dropping it")
		c.adminToken = ""
		c.tokenExpiry = time.Time{}
	}
}

// CreateUser creates a user in the configured realm
func (c *AdminClient) CreateUser(ctx context.Context, rep UserRepresentation) (ProviderResponse, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return ProviderResponse{}, err
	}

	id, err := c.client.CreateUser(ctx, token, c.cfg.Realm, toGocloakUser(rep))
	if err != nil {
		c.checkRejected(token, err)
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			slog.Debug("keycloak rejected user creation", "status", apiErr.Code, "message", apiErr.Message)
			return ProviderResponse{StatusCode: apiErr.Code}, nil
		}
		return ProviderResponse{}, fmt.Errorf("keycloak create user: %w", err)
	}

	resp := ProviderResponse{StatusCode: http.StatusCreated}
	if id != "" {
		resp.Location = c.userURL(id)
	}
	return resp, nil
}

// GetUser fetches a user by id
func (c *AdminClient) GetUser(ctx context.Context, id string) (UserRepresentation, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return UserRepresentation{}, err
	}

	user, err := c.client.GetUserByID(ctx, token, c.cfg.Realm, id)
	if err != nil {
		c.checkRejected(token, err)
		if isNotFound(err) {
			return UserRepresentation{}, ErrUserNotFound
		}
		return UserRepresentation{}, fmt.Errorf("keycloak get user: %w", err)
	}
	if user == nil {
		return UserRepresentation{}, ErrUserNotFound
	}
	return fromGocloakUser(user), nil
}

// GetRealmRoleMappings returns the names of the realm roles mapped to a user
func (c *AdminClient) GetRealmRoleMappings(ctx context.Context, id string) ([]string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	roles, err := c.client.GetRealmRolesByUserID(ctx, token, c.cfg.Realm, id)
	if err != nil {
		c.checkRejected(token, err)
		return nil, fmt.Errorf("keycloak get realm roles: %w", err)
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		if role == nil {
			continue
		}
		if name := gocloak.PString(role.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// GetGroupMemberships returns the names of the groups a user belongs to.
// Groups are read page by page so users in many groups are not truncated.
func (c *AdminClient) GetGroupMemberships(ctx context.Context, id string) ([]string, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for first := 0; ; first += groupPageSize {
		groups, err := c.client.GetUserGroups(ctx, token, c.cfg.Realm, id, gocloak.GetGroupsParams{
			First: gocloak.IntP(first),
			Max:   gocloak.IntP(groupPageSize),
		})
		if err != nil {
			c.checkRejected(token, err)
			return nil, fmt.Errorf("keycloak get user groups: %w", err)
		}

		for _, group := range groups {
			if group == nil {
				continue
			}
			if name := gocloak.PString(group.Name); name != "" {
				names = append(names, name)
			}
		}
		if len(groups) < groupPageSize {
			break
		}
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (c *AdminClient) userURL(id string) string {
	return fmt.Sprintf("%s/admin/realms/%s/users/%s", strings.TrimRight(c.cfg.URL, "/"), c.cfg.Realm, id)
}

func isNotFound(err error) bool {
	var apiErr *gocloak.APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func toGocloakUser(rep UserRepresentation) gocloak.User {
	user := gocloak.User{
		Username:      gocloak.StringP(rep.Username),
		Email:         gocloak.StringP(rep.Email),
		FirstName:     gocloak.StringP(rep.FirstName),
		LastName:      gocloak.StringP(rep.LastName),
		Enabled:       gocloak.BoolP(rep.Enabled),
		EmailVerified: gocloak.BoolP(rep.EmailVerified),
	}
	if len(rep.Credentials) > 0 {
		creds := make([]gocloak.CredentialRepresentation, 0, len(rep.Credentials))
		for _, cred := range rep.Credentials {
			creds = append(creds, gocloak.CredentialRepresentation{
				Type:      gocloak.StringP(cred.Type),
				Value:     gocloak.StringP(cred.Value),
				Temporary: gocloak.BoolP(cred.Temporary),
			})
		}
		user.Credentials = &creds
	}
	return user
}

func fromGocloakUser(user *gocloak.User) UserRepresentation {
	return UserRepresentation{
		ID:            gocloak.PString(user.ID),
		Username:      gocloak.PString(user.Username),
		Email:         gocloak.PString(user.Email),
		FirstName:     gocloak.PString(user.FirstName),
		LastName:      gocloak.PString(user.LastName),
		Enabled:       gocloak.PBool(user.Enabled),
		EmailVerified: gocloak.PBool(user.EmailVerified),
	}
}
