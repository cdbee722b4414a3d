package client

import (
	"log/slog"
	"net/http"

	"github.com/semmi1986/SB-keyclock/pkg/config"
)

// AuthContext is the authentication state of a request
type AuthContext struct {
	User            *AuthUser
	IsAuthenticated bool
}

// GetAuthContext reads the AuthUser stored by NewAuthUserMiddleware
func GetAuthContext(r *http.Request) AuthContext {
	authUser, ok := GetUserFromContext(r.Context())
	return AuthContext{
		User:            authUser,
		IsAuthenticated: ok,
	}
}

// HasAnyRole reports whether the user holds one of the roles.
// Comparison ignores case and a "ROLE_" prefix.
func (a AuthContext) HasAnyRole(roles ...string) bool {
	if !a.IsAuthenticated {
		return false
	}
	return config.HasAnyRole(a.User.Roles, roles)
}

// RequireRole returns a middleware that checks if the authenticated user has any of the specified roles.
// Returns 401 Unauthorized if not authenticated.
// Returns 403 Forbidden if authenticated but missing required role.
// Must be used after NewAuthUserMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx := GetAuthContext(r)

			if !authCtx.IsAuthenticated {
				slog.Debug("Unauthenticated request to role-protected resource", "requiredRoles", roles)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !authCtx.HasAnyRole(roles...) {
				slog.Warn("User lacks required role",
					"userId", authCtx.User.UserId,
					"userRoles", authCtx.User.Roles,
					"requiredRoles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
