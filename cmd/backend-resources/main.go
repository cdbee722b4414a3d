package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/semmi1986/SB-keyclock/pkg/config"
	"github.com/semmi1986/SB-keyclock/pkg/keycloak"
	"github.com/semmi1986/SB-keyclock/pkg/router"
	"github.com/tendant/chi-demo/app"
)

type Config struct {
	// Identity provider: "keycloak" or "inmem"
	IAMProvider string `env:"IAM_PROVIDER" env-default:"keycloak"`

	Keycloak config.KeycloakConfig
	JWT      config.JWTConfig

	AuthorizedRoles string `env:"AUTHORIZED_ROLES" env-default:"moderator,admin"`
	UsersPrefix     string `env:"USERS_PREFIX" env-default:"/api/users"`
	AuditEnabled    bool   `env:"AUDIT_ENABLED" env-default:"true"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// Server
	AppConfig app.AppConfig
}

func main() {
	// Load .env file before the logger so LOG_LEVEL can come from it
	envFile, envErr := loadEnvFile()

	cfg := Config{}
	cfgErr := cleanenv.ReadEnv(&cfg)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if envFile != "" {
		slog.Info("Loaded configuration from .env file", "path", envFile)
	}
	if envErr != nil {
		slog.Warn("Failed to load .env file", "error", envErr)
	}
	if cfgErr != nil {
		slog.Error("Failed to read configuration", "error", cfgErr)
		os.Exit(1)
	}
	if err := config.ValidateProviderType(cfg.IAMProvider); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting backend-resources", "provider", cfg.IAMProvider, "realm", cfg.Keycloak.Realm)

	provider, err := keycloak.NewProvider(cfg.IAMProvider, cfg.Keycloak)
	if err != nil {
		slog.Error("Failed to create identity provider", "error", err)
		os.Exit(1)
	}

	if adminClient, ok := provider.(*keycloak.AdminClient); ok {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Keycloak.ConnectMaxElapsed+cfg.Keycloak.Timeout)
		err := keycloak.Connect(ctx, adminClient, cfg.Keycloak.ConnectMaxElapsed)
		cancel()
		if err != nil {
			slog.Error("Failed to connect to Keycloak", "url", cfg.Keycloak.URL, "error", err)
			os.Exit(1)
		}
		slog.Info("Connected to Keycloak", "url", cfg.Keycloak.URL)
	} else {
		slog.Warn("Using in-memory identity provider, users are lost on restart")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	routerConfig, err := router.NewConfig(ctx, router.Options{
		Provider:        provider,
		JWT:             cfg.JWT,
		AuthorizedRoles: config.ParseAuthorizedRoles(cfg.AuthorizedRoles),
		UsersPrefix:     cfg.UsersPrefix,
		AuditEnabled:    cfg.AuditEnabled,
	})
	cancel()
	if err != nil {
		slog.Error("Failed to configure routes", "error", err)
		os.Exit(1)
	}

	server := app.DefaultApp()
	setupRoutes(server.R, routerConfig)

	slog.Info("backend-resources ready",
		"users", routerConfig.UsersPrefix,
		"roles", routerConfig.AuthorizedRoles,
		"oidc", cfg.JWT.UsesOIDC())

	server.Run()
}

func setupRoutes(r *chi.Mux, routerConfig router.Config) {
	// Health check endpoints
	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)

	router.SetupRoutes(r, routerConfig)
}

// loadEnvFile loads environment variables from a .env file next to the
// executable or in the working directory, if one exists
func loadEnvFile() (string, error) {
	candidates := []string{}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		return envFile, godotenv.Load(envFile)
	}
	return "", nil
}
