package config

// JWTConfig holds bearer token verification settings.
//
// Tokens issued by Keycloak are verified against the realm's published keys
// when IssuerURL is set. Secret enables HS256 verification instead, which is
// what local development and tests use.
type JWTConfig struct {
	Secret    string `env:"JWT_SECRET" env-default:""`
	IssuerURL string `env:"JWT_ISSUER_URL" env-default:""`
	Audience  string `env:"JWT_AUDIENCE" env-default:""`

	// PrincipalClaim names the claim reported as the caller's principal.
	// Falls back to "sub" when the claim is absent from a token.
	PrincipalClaim string `env:"JWT_PRINCIPAL_CLAIM" env-default:"preferred_username"`
}

// UsesOIDC reports whether tokens are verified through OIDC discovery
func (j JWTConfig) UsesOIDC() bool {
	return j.IssuerURL != ""
}

// Validate checks that exactly one verification method is usable
func (j JWTConfig) Validate() error {
	return Validate(func() ValidationErrors {
		if j.IssuerURL == "" && j.Secret == "" {
			return ValidationErrors{{Field: "JWT_SECRET", Message: "either JWT_SECRET or JWT_ISSUER_URL is required"}}
		}
		return CollectErrors(
			WhenSet(j.IssuerURL, func() *ValidationError { return RequireValidURL("JWT_ISSUER_URL", j.IssuerURL) }),
			RequireNonEmpty("JWT_PRINCIPAL_CLAIM", j.PrincipalClaim),
		)
	})
}
