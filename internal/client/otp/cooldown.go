package otp

import (
	"context"
	"sync"
	"time"
)

// DefaultCooldown is how long, in seconds, resend stays disabled.
const DefaultCooldown = 60

// Cooldown counts down the seconds until a code may be resent.
type Cooldown struct {
	mu        sync.Mutex
	start     int
	remaining int
	restarted chan struct{}
}

// NewCooldown returns a running cooldown of seconds. Non-positive values use
// DefaultCooldown.
func NewCooldown(seconds int) *Cooldown {
	if seconds <= 0 {
		seconds = DefaultCooldown
	}
	return &Cooldown{start: seconds, remaining: seconds, restarted: make(chan struct{}, 1)}
}

// Tick takes one second off and returns what is left.
func (c *Cooldown) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining
}

func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Cooldown) CanResend() bool {
	return c.Remaining() == 0
}

// Restart puts the full cooldown back. A running Run starts counting the
// new window from now.
func (c *Cooldown) Restart() {
	c.mu.Lock()
	c.remaining = c.start
	c.mu.Unlock()

	select {
	case c.restarted <- struct{}{}:
	default:
	}
}

// Run ticks every interval until ctx is done.
func (c *Cooldown) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.restarted:
			ticker.Reset(interval)
		case <-ticker.C:
			c.Tick()
		}
	}
}
