package config

import "time"

// KeycloakConfig holds the settings of the Keycloak admin client
type KeycloakConfig struct {
	URL   string `env:"KEYCLOAK_URL" env-default:"http://localhost:8080"`
	Realm string `env:"KEYCLOAK_REALM" env-default:"ITM"`

	// AdminRealm is where the admin credentials below live. Usually "master".
	AdminRealm    string `env:"KEYCLOAK_ADMIN_REALM" env-default:"master"`
	AdminUsername string `env:"KEYCLOAK_ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string `env:"KEYCLOAK_ADMIN_PASSWORD" env-default:"admin"`

	// When ClientSecret is set the client credentials grant is used instead
	// of the admin password grant.
	ClientID     string `env:"KEYCLOAK_CLIENT_ID" env-default:"admin-cli"`
	ClientSecret string `env:"KEYCLOAK_CLIENT_SECRET" env-default:""`

	Timeout           time.Duration `env:"KEYCLOAK_TIMEOUT" env-default:"10s"`
	ConnectMaxElapsed time.Duration `env:"KEYCLOAK_CONNECT_MAX_ELAPSED" env-default:"1m"`
}

// UsesClientCredentials reports whether a service account should be used
func (c KeycloakConfig) UsesClientCredentials() bool {
	return c.ClientSecret != ""
}

// Validate checks the Keycloak configuration
func (c KeycloakConfig) Validate() error {
	return Validate(func() ValidationErrors {
		errs := CollectErrors(
			RequireValidURL("KEYCLOAK_URL", c.URL),
			RequireNonEmpty("KEYCLOAK_REALM", c.Realm),
			RequireNonEmpty("KEYCLOAK_ADMIN_REALM", c.AdminRealm),
			RequireNonEmpty("KEYCLOAK_CLIENT_ID", c.ClientID),
			RequirePositiveDuration("KEYCLOAK_TIMEOUT", c.Timeout),
		)
		if !c.UsesClientCredentials() {
			errs = append(errs, CollectErrors(
				RequireNonEmpty("KEYCLOAK_ADMIN_USERNAME", c.AdminUsername),
				RequireNonEmpty("KEYCLOAK_ADMIN_PASSWORD", c.AdminPassword),
			)...)
		}
		return errs
	})
}
