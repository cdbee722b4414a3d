package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// DefaultPrincipalClaim is the claim reported as the caller's principal
const DefaultPrincipalClaim = "preferred_username"

const ACCESS_TOKEN_NAME = "access_token"

// KeycloakClaims are the claims of a Keycloak access token the service reads.
// Roles may sit at the top level (tokens minted by tokengen), under
// realm_access or under resource_access.<client>.
type KeycloakClaims struct {
	Subject           string `json:"sub,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	AuthorizedParty   string `json:"azp,omitempty"`
	RealmAccess       struct {
		Roles []string `json:"roles,omitempty"`
	} `json:"realm_access,omitempty"`
	ResourceAccess map[string]struct {
		Roles []string `json:"roles,omitempty"`
	} `json:"resource_access,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// RolesFor returns the top-level and realm roles plus the client roles of
// clientID, without duplicates. With an empty clientID the token's azp is
// used. Roles granted on any other client are ignored.
func (c KeycloakClaims) RolesFor(clientID string) []string {
	seen := make(map[string]struct{})
	var roles []string
	add := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok || name == "" {
				continue
			}
			seen[name] = struct{}{}
			roles = append(roles, name)
		}
	}

	add(c.Roles)
	add(c.RealmAccess.Roles)

	if clientID == "" {
		clientID = c.AuthorizedParty
	}
	if access, ok := c.ResourceAccess[clientID]; ok && clientID != "" {
		add(access.Roles)
	}
	return roles
}

type AuthUser struct {
	UserId   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	// Principal is the value of the configured principal claim
	Principal string   `json:"principal,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

func (i AuthUser) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user", i.UserId),
		slog.String("principal", i.Principal),
		slog.Any("roles", i.Roles),
	)
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation. This technique
// for defining context keys was copied from Go 1.7's new use of context in net/http.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "biz context value " + k.name
}

var (
	AuthUserKey       = &contextKey{"AuthUser"}
	VerifiedClaimsKey = &contextKey{"VerifiedClaims"}
)

func LoadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}

// GetUserFromContext returns the authenticated user set by NewAuthUserMiddleware
func GetUserFromContext(ctx context.Context) (*AuthUser, bool) {
	authUser, ok := ctx.Value(AuthUserKey).(*AuthUser)
	return authUser, ok && authUser != nil
}

// NewAuthUserMiddleware builds an AuthUser from verified token claims and
// stores it in the request context. Claims come from the OIDC verifier when
// present, from jwtauth otherwise. The principal is read from
// principalClaim and falls back to "sub". Client roles count only when
// granted on clientID, or on the token's azp when clientID is empty.
func NewAuthUserMiddleware(principalClaim, clientID string) func(http.Handler) http.Handler {
	if principalClaim == "" {
		principalClaim = DefaultPrincipalClaim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var claims map[string]interface{}

			if claimsValue := r.Context().Value(VerifiedClaimsKey); claimsValue != nil {
				if mapClaims, ok := claimsValue.(map[string]interface{}); ok {
					claims = mapClaims
				}
			}

			// Fallback to jwtauth context if no verified claims found
			if claims == nil {
				_, jwtClaims, jwtErr := jwtauth.FromContext(r.Context())
				if jwtErr != nil {
					http.Error(w, fmt.Sprintf("missing or invalid JWT: %v", jwtErr), http.StatusUnauthorized)
					return
				}
				claims = jwtClaims
			}

			if claims == nil {
				http.Error(w, "missing JWT claims", http.StatusUnauthorized)
				return
			}

			var kc KeycloakClaims
			if err := LoadFromMap(claims, &kc); err != nil {
				slog.Error("failed to parse token claims", "error", err)
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			authUser := &AuthUser{
				UserId:   kc.Subject,
				Username: kc.PreferredUsername,
				Email:    kc.Email,
				Roles:    kc.RolesFor(clientID),
			}
			if principal, ok := claims[principalClaim].(string); ok && principal != "" {
				authUser.Principal = principal
			} else {
				authUser.Principal = kc.Subject
			}

			if authUser.Principal == "" {
				http.Error(w, "missing principal in token", http.StatusUnauthorized)
				return
			}

			slog.Debug("authenticated user", "user", authUser)

			ctx := context.WithValue(r.Context(), AuthUserKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Verifier verifies HS256 tokens from the Authorization header or the
// access_token cookie
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie)(next)
	}
}

func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(ACCESS_TOKEN_NAME)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// extractTokenFromRequest attempts to extract a token from the request using existing extractors
func extractTokenFromRequest(r *http.Request) (string, error) {
	extractors := []func(*http.Request) string{
		jwtauth.TokenFromHeader,
		TokenFromCookie,
	}

	for _, extractor := range extractors {
		if tokenString := extractor(r); tokenString != "" {
			return tokenString, nil
		}
	}

	return "", fmt.Errorf("no token found")
}
