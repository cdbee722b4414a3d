package keycloak

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Connect obtains a first admin token, retrying with exponential backoff
// until maxElapsed has passed. A zero maxElapsed tries once.
//
// Only startup uses this. Request-time provider calls are never retried.
func Connect(ctx context.Context, c *AdminClient, maxElapsed time.Duration) error {
	if maxElapsed <= 0 {
		_, err := c.Token(ctx)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = maxElapsed

	return backoff.RetryNotify(func() error {
		_, err := c.Token(ctx)
		return err
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		slog.Warn("Keycloak not reachable, retrying", "err", err, "next", next)
	})
}
