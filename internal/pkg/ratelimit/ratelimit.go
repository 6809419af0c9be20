// Package ratelimit gates how often a one-time code may be issued per phone.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Noop allows every issuance.
type Noop struct{}

// Allow always reports true.
func (Noop) Allow(context.Context, string) (bool, error) {
	return true, nil
}

// Cooldown allows one issuance per key per window, shared across instances
// through Redis. The first caller in a window claims the key with SET NX PX.
type Cooldown struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewCooldown returns a Cooldown over client. window must be positive.
func NewCooldown(client *redis.Client, window time.Duration) *Cooldown {
	return &Cooldown{client: client, window: window, prefix: "phoneotp:cooldown:"}
}

// Allow claims key for the window. It reports false while an earlier claim is live.
func (c *Cooldown) Allow(ctx context.Context, key string) (bool, error) {
	return c.client.SetNX(ctx, c.prefix+key, 1, c.window).Result()
}

// Retry reports how long until key may be issued again; zero when it may be now.
func (c *Cooldown) Retry(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.PTTL(ctx, c.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	// PTTL answers -2 for a missing key and -1 for a key without expiry
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
