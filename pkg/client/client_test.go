package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret-key")

// CreateTestToken creates a Keycloak style access token with the specified
// subject, username and realm roles
func CreateTestToken(subject, username string, realmRoles []string, secret []byte) (string, error) {
	tokenAuth := jwtauth.New("HS256", secret, nil)

	claims := map[string]interface{}{
		"sub":                subject,
		"exp":                time.Now().Add(time.Hour).Unix(),
		"preferred_username": username,
		"email":              username + "@example.com",
		"realm_access": map[string]interface{}{
			"roles": realmRoles,
		},
	}

	_, tokenString, err := tokenAuth.Encode(claims)
	return tokenString, err
}

func requestWithToken(t *testing.T, tokenString string) *http.Request {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", testSecret, nil)
	token, err := tokenAuth.Decode(tokenString)
	require.NoError(t, err, "Failed to decode token")

	ctx := jwtauth.NewContext(context.Background(), token, nil)
	req, err := http.NewRequestWithContext(ctx, "GET", "/", nil)
	require.NoError(t, err)
	return req
}

func TestAuthUserMiddleware(t *testing.T) {
	userID := uuid.New().String()

	testCases := []struct {
		name        string
		username    string
		roles       []string
		expectRoles []string
	}{
		{
			name:        "Admin and User Roles",
			username:    "admin_user",
			roles:       []string{"admin", "user"},
			expectRoles: []string{"admin", "user"},
		},
		{
			name:        "Moderator Role Only",
			username:    "mod_user",
			roles:       []string{"ROLE_MODERATOR"},
			expectRoles: []string{"ROLE_MODERATOR"},
		},
		{
			name:        "No Roles",
			username:    "no_role_user",
			roles:       nil,
			expectRoles: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokenString, err := CreateTestToken(userID, tc.username, tc.roles, testSecret)
			require.NoError(t, err, "Failed to create test token")

			req := requestWithToken(t, tokenString)
			res := httptest.NewRecorder()

			handlerCalled := false
			mockHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true

				authUser, ok := GetUserFromContext(r.Context())
				require.True(t, ok, "Auth user should be in the context")

				assert.Equal(t, userID, authUser.UserId, "User ID should match")
				assert.Equal(t, tc.username, authUser.Username, "Username should match")
				assert.Equal(t, tc.username, authUser.Principal, "Principal should be the preferred username")
				assert.Equal(t, tc.username+"@example.com", authUser.Email, "Email should match")
				assert.Equal(t, tc.expectRoles, authUser.Roles, "Roles should match")
			})

			NewAuthUserMiddleware(DefaultPrincipalClaim, "")(mockHandler).ServeHTTP(res, req)

			assert.True(t, handlerCalled, "Handler should have been called")
			assert.Equal(t, http.StatusOK, res.Code)
		})
	}
}

func TestAuthUserMiddlewarePrincipalClaim(t *testing.T) {
	userID := uuid.New().String()
	tokenString, err := CreateTestToken(userID, "bob", []string{"admin"}, testSecret)
	require.NoError(t, err)

	tests := []struct {
		claim string
		want  string
	}{
		{"preferred_username", "bob"},
		{"email", "bob@example.com"},
		{"sub", userID},
		{"not_in_token", userID},
		{"", "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.claim, func(t *testing.T) {
			var got string
			handler := NewAuthUserMiddleware(tt.claim, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				authUser, _ := GetUserFromContext(r.Context())
				got = authUser.Principal
			}))

			handler.ServeHTTP(httptest.NewRecorder(), requestWithToken(t, tokenString))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthUserMiddlewareWithoutToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	res := httptest.NewRecorder()

	NewAuthUserMiddleware(DefaultPrincipalClaim, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})).ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAuthUserMiddlewareUsesVerifiedClaims(t *testing.T) {
	claims := map[string]interface{}{
		"sub":                "kc-subject",
		"preferred_username": "carol",
		"azp":                "backend-resources",
		"resource_access": map[string]interface{}{
			"backend-resources": map[string]interface{}{"roles": []interface{}{"moderator"}},
		},
	}
	ctx := context.WithValue(context.Background(), VerifiedClaimsKey, claims)
	req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)

	var authUser *AuthUser
	NewAuthUserMiddleware(DefaultPrincipalClaim, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authUser, _ = GetUserFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, authUser)
	assert.Equal(t, "carol", authUser.Principal)
	assert.Equal(t, []string{"moderator"}, authUser.Roles)
}

func TestKeycloakClaimsRolesFor(t *testing.T) {
	var kc KeycloakClaims
	require.NoError(t, LoadFromMap(map[string]interface{}{
		"azp":          "backend-resources",
		"roles":        []string{"admin"},
		"realm_access": map[string]interface{}{"roles": []string{"admin", "offline_access"}},
		"resource_access": map[string]interface{}{
			"backend-resources": map[string]interface{}{"roles": []string{"moderator"}},
			"some-other-app":    map[string]interface{}{"roles": []string{"superuser"}},
		},
	}, &kc))

	tests := []struct {
		name     string
		clientID string
		want     []string
	}{
		{"falls back to azp", "", []string{"admin", "offline_access", "moderator"}},
		{"configured client", "backend-resources", []string{"admin", "offline_access", "moderator"}},
		{"other client", "some-other-app", []string{"admin", "offline_access", "superuser"}},
		{"client not in token", "reporting", []string{"admin", "offline_access"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kc.RolesFor(tt.clientID))
		})
	}
}

func TestAuthUserMiddlewareIgnoresForeignClientRoles(t *testing.T) {
	claims := map[string]interface{}{
		"sub":                "kc-subject",
		"preferred_username": "mallory",
		"azp":                "backend-resources",
		"realm_access":       map[string]interface{}{"roles": []interface{}{"user"}},
		"resource_access": map[string]interface{}{
			"some-other-app": map[string]interface{}{"roles": []interface{}{"admin"}},
		},
	}
	ctx := context.WithValue(context.Background(), VerifiedClaimsKey, claims)

	for _, clientID := range []string{"", "backend-resources"} {
		t.Run("client "+clientID, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil).WithContext(ctx)
			res := httptest.NewRecorder()

			called := false
			handler := NewAuthUserMiddleware(DefaultPrincipalClaim, clientID)(
				RequireRole("moderator", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					called = true
				})))
			handler.ServeHTTP(res, req)

			assert.Equal(t, http.StatusForbidden, res.Code)
			assert.False(t, called)
		})
	}
}

func TestTokenFromCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, TokenFromCookie(req))

	req.AddCookie(&http.Cookie{Name: ACCESS_TOKEN_NAME, Value: "abc"})
	assert.Equal(t, "abc", TokenFromCookie(req))
}
