// Package keycloak talks to the identity provider on behalf of the user
// service.
//
// Provider is the narrow administrative surface the service needs. Two
// implementations exist:
//
//   - AdminClient, backed by github.com/Nerzal/gocloak/v13. It logs in to the
//     admin realm (password grant, or client credentials when a client
//     secret is configured), caches the access token until shortly before
//     it expires, and applies KEYCLOAK_TIMEOUT to every HTTP call.
//   - InMemoryProvider, for local runs (IAM_PROVIDER=inmem) and tests.
//
// # Usage
//
//	client := keycloak.NewAdminClient(cfg.Keycloak)
//	if err := keycloak.Connect(ctx, client, cfg.Keycloak.ConnectMaxElapsed); err != nil {
//		slog.Error("keycloak unavailable", "err", err)
//		os.Exit(1)
//	}
//
//	resp, err := client.CreateUser(ctx, keycloak.UserRepresentation{...})
//	// resp.StatusCode == 201, or 409 for a taken username/email
//
// GetUser returns ErrUserNotFound for unknown ids.
package keycloak
