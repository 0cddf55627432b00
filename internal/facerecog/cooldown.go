package facerecog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown suppresses repeated clock submissions for an employee inside
// a fixed window. Acquire is atomic; the first caller wins the window.
type Cooldown struct {
	client *redis.Client
	window time.Duration
}

// NewCooldown builds a Cooldown. A zero or negative window disables it.
func NewCooldown(client *redis.Client, window time.Duration) *Cooldown {
	return &Cooldown{client: client, window: window}
}

// Acquire reports whether the employee is outside the cooldown window,
// starting a new window when it is.
func (c *Cooldown) Acquire(ctx context.Context, employeeID int64) (bool, error) {
	if c.client == nil || c.window <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("facerecog:cooldown:%d", employeeID)
	ok, err := c.client.SetNX(ctx, key, 1, c.window).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown acquire: %w", err)
	}
	return ok, nil
}
