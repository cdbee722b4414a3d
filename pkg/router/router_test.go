package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	pkgconfig "github.com/semmi1986/SB-keyclock/pkg/config"
	"github.com/semmi1986/SB-keyclock/pkg/keycloak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret-key-for-testing-only"

func createTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg, err := NewConfig(context.Background(), Options{
		Provider: keycloak.NewInMemoryProvider(),
		JWT: pkgconfig.JWTConfig{
			Secret:         jwtSecret,
			PrincipalClaim: "preferred_username",
		},
		AuthorizedRoles: pkgconfig.ParseAuthorizedRoles("moderator,admin"),
		AuditEnabled:    true,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	SetupRoutes(r, cfg)
	return r
}

func createToken(t *testing.T, username string, roles ...string) string {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)
	_, token, err := tokenAuth.Encode(map[string]interface{}{
		"sub":                "sub-" + username,
		"exp":                time.Now().Add(time.Hour).Unix(),
		"preferred_username": username,
		"realm_access":       map[string]interface{}{"roles": roles},
	})
	require.NoError(t, err)
	return token
}

// clientRoleToken grants role on client only, the token being issued to azp
func clientRoleToken(t *testing.T, username, azp, client, role string) string {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)
	_, token, err := tokenAuth.Encode(map[string]interface{}{
		"sub":                "sub-" + username,
		"exp":                time.Now().Add(time.Hour).Unix(),
		"preferred_username": username,
		"azp":                azp,
		"realm_access":       map[string]interface{}{"roles": []string{"user"}},
		"resource_access": map[string]interface{}{
			client: map[string]interface{}{"roles": []string{role}},
		},
	})
	require.NoError(t, err)
	return token
}

func foreignClientAdminToken(t *testing.T) string {
	return clientRoleToken(t, "mallory", "backend-resources", "some-other-app", "admin")
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func TestSetupRoutes_CreateThenFetch(t *testing.T) {
	h := createTestRouter(t)
	token := createToken(t, "mod", "moderator")
	body := `{"username":"bob","email":"bob@ex.com","password":"pw","firstName":"Bob","lastName":"X"}`

	res := do(t, h, http.MethodPost, "/api/users", body, token)
	require.Equal(t, http.StatusCreated, res.Code)
	location := res.Header().Get("Location")
	require.NotEmpty(t, location)

	res = do(t, h, http.MethodPost, "/api/users", body, token)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = do(t, h, http.MethodGet, location, "", token)
	require.Equal(t, http.StatusOK, res.Code)

	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &profile))
	assert.Equal(t, "bob", profile["username"])
	assert.Equal(t, "bob@ex.com", profile["email"])
	assert.IsType(t, []interface{}{}, profile["roles"])
	assert.IsType(t, []interface{}{}, profile["groups"])
}

func TestSetupRoutes_Authorization(t *testing.T) {
	h := createTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"no token", http.MethodGet, "/api/users/hello", "", http.StatusUnauthorized, ""},
		{"garbage token", http.MethodGet, "/api/users/hello", "not.a.jwt", http.StatusUnauthorized, ""},
		{"missing role", http.MethodGet, "/api/users/hello", createToken(t, "eve", "user"), http.StatusForbidden, ""},
		{"hello moderator", http.MethodGet, "/api/users/hello", createToken(t, "mod", "moderator"), http.StatusOK, "mod"},
		{"hello admin prefixed", http.MethodGet, "/api/users/hello", createToken(t, "root", "ROLE_ADMIN"), http.StatusOK, "root"},
		{"not a uuid", http.MethodGet, "/api/users/not-a-uuid", createToken(t, "mod", "moderator"), http.StatusBadRequest, ""},
		{"unknown uuid", http.MethodGet, "/api/users/6f1c2a9e-3b7d-4c5e-9a10-2f8e4d6b7c01", createToken(t, "mod", "moderator"), http.StatusNotFound, ""},
		{"forbidden before validation", http.MethodGet, "/api/users/not-a-uuid", createToken(t, "eve"), http.StatusForbidden, ""},
		{"no route outside the users prefix", http.MethodGet, "/private", createToken(t, "eve"), http.StatusNotFound, ""},
		{"foreign client admin", http.MethodPost, "/api/users", foreignClientAdminToken(t), http.StatusForbidden, ""},
		{"own client moderator", http.MethodGet, "/api/users/hello", clientRoleToken(t, "carol", "backend-resources", "backend-resources", "moderator"), http.StatusOK, "carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ""
			if tt.method == http.MethodPost {
				body = `{"username":"mallory","email":"m@ex.com","password":"pw","firstName":"M","lastName":"X"}`
			}
			res := do(t, h, tt.method, tt.path, body, tt.token)

			assert.Equal(t, tt.wantStatus, res.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, res.Body.String())
			}
		})
	}
}

func TestNewConfigRequiresProvider(t *testing.T) {
	_, err := NewConfig(context.Background(), Options{JWT: pkgconfig.JWTConfig{Secret: "x", PrincipalClaim: "sub"}})
	assert.Error(t, err)
}

func TestNewConfigRequiresVerification(t *testing.T) {
	_, err := NewConfig(context.Background(), Options{
		Provider: keycloak.NewInMemoryProvider(),
		JWT:      pkgconfig.JWTConfig{PrincipalClaim: "sub"},
	})
	assert.Error(t, err)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(context.Background(), Options{
		Provider: keycloak.NewInMemoryProvider(),
		JWT:      pkgconfig.JWTConfig{Secret: "x", PrincipalClaim: "sub"},
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultUsersPrefix, cfg.UsersPrefix)
	assert.Equal(t, []string{"moderator", "admin"}, cfg.AuthorizedRoles)
	assert.NotNil(t, cfg.JWTAuth)
	assert.Nil(t, cfg.OIDCVerifier)
	assert.Nil(t, cfg.Audit)
}

func TestSetupRoutes_ConfiguredClientRoles(t *testing.T) {
	cfg, err := NewConfig(context.Background(), Options{
		Provider: keycloak.NewInMemoryProvider(),
		JWT: pkgconfig.JWTConfig{
			Secret:         jwtSecret,
			Audience:       "backend-resources",
			PrincipalClaim: "preferred_username",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "backend-resources", cfg.ClientID)

	r := chi.NewRouter()
	SetupRoutes(r, cfg)

	// the configured client wins over azp
	res := do(t, r, http.MethodGet, "/api/users/hello", "", clientRoleToken(t, "carol", "frontend", "backend-resources", "admin"))
	assert.Equal(t, http.StatusOK, res.Code)

	res = do(t, r, http.MethodGet, "/api/users/hello", "", clientRoleToken(t, "dave", "frontend", "frontend", "admin"))
	assert.Equal(t, http.StatusForbidden, res.Code)
}
