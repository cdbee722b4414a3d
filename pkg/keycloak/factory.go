package keycloak

import (
	"fmt"

	"github.com/semmi1986/SB-keyclock/pkg/config"
)

// NewProvider creates a Provider based on the provider type
func NewProvider(providerType string, cfg config.KeycloakConfig) (Provider, error) {
	switch providerType {
	case config.ProviderKeycloak, "":
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid keycloak configuration: %w", err)
		}
		return NewAdminClient(cfg), nil
	case config.ProviderInMemory:
		p := NewInMemoryProvider()
		p.DefaultRoles = []string{"default-roles-" + cfg.Realm}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s (supported: keycloak, inmem)", providerType)
	}
}
