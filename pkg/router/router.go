package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/semmi1986/SB-keyclock/pkg/audit"
	"github.com/semmi1986/SB-keyclock/pkg/client"
	userapi "github.com/semmi1986/SB-keyclock/pkg/user/api"
)

const DefaultUsersPrefix = "/api/users"

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	UsersPrefix string
	UserHandle  *userapi.UserHandler

	// JWT verification. OIDCVerifier takes precedence over JWTAuth.
	JWTAuth        *jwtauth.JWTAuth
	OIDCVerifier   *client.OIDCVerifier
	PrincipalClaim string

	// ClientID selects whose resource_access roles count. Empty means the
	// token's azp.
	ClientID string

	// AuthorizedRoles may call the user endpoints
	AuthorizedRoles []string

	// Audit is optional
	Audit *audit.Middleware
}

// SetupRoutes mounts the user administration routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	prefix := cfg.UsersPrefix
	if prefix == "" {
		prefix = DefaultUsersPrefix
	}

	router.Group(func(r chi.Router) {
		if cfg.OIDCVerifier != nil {
			r.Use(cfg.OIDCVerifier.Middleware)
		} else {
			r.Use(client.Verifier(cfg.JWTAuth))
			r.Use(jwtauth.Authenticator(cfg.JWTAuth))
		}
		r.Use(client.NewAuthUserMiddleware(cfg.PrincipalClaim, cfg.ClientID))
		if cfg.Audit != nil {
			r.Use(cfg.Audit.AuditAuthMiddleware)
		}

		r.Mount(prefix, userapi.SecureHandler(cfg.UserHandle, cfg.AuthorizedRoles...))
	})
}
