package config

import (
	"log/slog"
	"os"
	"strings"
)

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseList splits a comma-separated value and trims each part.
// Empty parts are filtered out.
func ParseList(value string) []string {
	if value == "" {
		return nil
	}

	parts := []string{}
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// ParseLogLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Provider types accepted by IAM_PROVIDER
const (
	ProviderKeycloak = "keycloak"
	ProviderInMemory = "inmem"
)

// ValidateProviderType checks the IAM_PROVIDER value
func ValidateProviderType(value string) error {
	return Validate(func() ValidationErrors {
		return CollectErrors(RequireOneOf("IAM_PROVIDER", value, []string{ProviderKeycloak, ProviderInMemory}))
	})
}
