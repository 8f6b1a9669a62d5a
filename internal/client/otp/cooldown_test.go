package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldown_CountsDownToZero(t *testing.T) {
	c := NewCooldown(3)
	assert.False(t, c.CanResend())

	assert.Equal(t, 2, c.Tick())
	assert.Equal(t, 1, c.Tick())
	assert.False(t, c.CanResend())
	assert.Equal(t, 0, c.Tick())
	assert.True(t, c.CanResend())

	assert.Equal(t, 0, c.Tick(), "never goes negative")

	c.Restart()
	assert.Equal(t, 3, c.Remaining())
	assert.False(t, c.CanResend())
}

func TestCooldown_Default(t *testing.T) {
	assert.Equal(t, DefaultCooldown, NewCooldown(0).Remaining())
	assert.Equal(t, 60, NewCooldown(-5).Remaining())
}

func TestCooldown_Run(t *testing.T) {
	c := NewCooldown(3)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, c.CanResend, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCooldown_RestartRealignsRunningTicker(t *testing.T) {
	c := NewCooldown(5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const interval = 200 * time.Millisecond
	go c.Run(ctx, interval)

	time.Sleep(120 * time.Millisecond)
	c.Restart()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 5, c.Remaining(), "first tick of the new window must wait a full interval")

	assert.Eventually(t, func() bool { return c.Remaining() == 4 }, time.Second, 10*time.Millisecond)
}
