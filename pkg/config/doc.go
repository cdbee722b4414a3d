// Package config provides the configuration types and validation helpers
// shared by the service binaries.
//
// Structs carry cleanenv tags and are embedded into the per-binary Config
// read by cleanenv.ReadEnv. Each one exposes a Validate method that returns
// ValidationErrors listing every problem at once.
//
// # Keycloak
//
//	var kc config.KeycloakConfig // KEYCLOAK_URL, KEYCLOAK_REALM, ...
//	if err := kc.Validate(); err != nil {
//		slog.Error("invalid keycloak config", "err", err)
//	}
//
// Setting KEYCLOAK_CLIENT_SECRET switches the admin client to the client
// credentials grant.
//
// # Bearer Tokens
//
// JWTConfig selects between HS256 verification with JWT_SECRET and OIDC
// discovery against JWT_ISSUER_URL.
//
// # Roles
//
//	roles := config.ParseAuthorizedRoles(os.Getenv("AUTHORIZED_ROLES"))
//	config.HasAnyRole([]string{"ROLE_ADMIN"}, roles) // true
//
// Role names compare case-insensitively and ignore a "ROLE_" prefix.
//
// # Validation
//
//	err := config.Validate(func() config.ValidationErrors {
//		return config.CollectErrors(
//			config.RequireNonEmpty("KEYCLOAK_REALM", realm),
//			config.RequirePositiveDuration("KEYCLOAK_TIMEOUT", timeout),
//		)
//	})
package config
