package router

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/semmi1986/SB-keyclock/pkg/audit"
	"github.com/semmi1986/SB-keyclock/pkg/client"
	pkgconfig "github.com/semmi1986/SB-keyclock/pkg/config"
	"github.com/semmi1986/SB-keyclock/pkg/keycloak"
	"github.com/semmi1986/SB-keyclock/pkg/user"
	userapi "github.com/semmi1986/SB-keyclock/pkg/user/api"
)

// Options contains what is needed to build a router Config
type Options struct {
	Provider        keycloak.Provider
	JWT             pkgconfig.JWTConfig
	AuthorizedRoles []string
	UsersPrefix     string
	AuditEnabled    bool
}

// NewConfig wires the user service, its handler and token verification.
// With JWT.IssuerURL set the issuer is discovered over the network, so ctx
// bounds that call.
//
// Example:
//
//	cfg, err := router.NewConfig(ctx, router.Options{
//	    Provider:        provider,
//	    JWT:             config.JWT,
//	    AuthorizedRoles: pkgconfig.ParseAuthorizedRoles(config.AuthorizedRoles),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.SetupRoutes(r, cfg)
func NewConfig(ctx context.Context, opts Options) (Config, error) {
	if opts.Provider == nil {
		return Config{}, fmt.Errorf("provider is required")
	}
	if err := opts.JWT.Validate(); err != nil {
		return Config{}, err
	}

	prefix := opts.UsersPrefix
	if prefix == "" {
		prefix = DefaultUsersPrefix
	}

	userHandle := userapi.NewUserHandler(user.NewUserService(opts.Provider))
	userHandle.BasePath = prefix

	roles := opts.AuthorizedRoles
	if len(roles) == 0 {
		roles = pkgconfig.ParseAuthorizedRoles("")
	}

	cfg := Config{
		UsersPrefix:     prefix,
		UserHandle:      userHandle,
		PrincipalClaim:  opts.JWT.PrincipalClaim,
		ClientID:        opts.JWT.Audience,
		AuthorizedRoles: roles,
	}

	if opts.JWT.UsesOIDC() {
		verifier, err := client.NewOIDCVerifier(ctx, opts.JWT.IssuerURL, opts.JWT.Audience)
		if err != nil {
			return Config{}, err
		}
		cfg.OIDCVerifier = verifier
	} else {
		cfg.JWTAuth = jwtauth.New("HS256", []byte(opts.JWT.Secret), nil)
	}

	if opts.AuditEnabled {
		cfg.Audit = audit.NewMiddleware(audit.Config{})
	}

	return cfg, nil
}
