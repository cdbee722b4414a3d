package keycloak

// CredentialTypePassword is the only credential type the service creates
const CredentialTypePassword = "password"

// Credential is a credential attached to a user representation
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// UserRepresentation is the provider's administrative view of a user
type UserRepresentation struct {
	ID            string       `json:"id,omitempty"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Enabled       bool         `json:"enabled"`
	EmailVerified bool         `json:"emailVerified"`
	Credentials   []Credential `json:"credentials,omitempty"`
}

// ProviderResponse is the raw outcome of a create call.
// StatusCode is the HTTP status the provider answered with. Location points
// at the created user and is only set on success.
type ProviderResponse struct {
	StatusCode int
	Location   string
}

// Successful reports a 2xx status
func (r ProviderResponse) Successful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
