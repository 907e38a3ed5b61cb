package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Requests(t *testing.T) {
	c := NewController(Config{MaxConcurrentRequests: 2})

	// Acquire 2
	require.NoError(t, c.AcquireRequest(context.Background()))
	require.NoError(t, c.AcquireRequest(context.Background()))
	assert.Equal(t, int64(2), c.InFlight())

	// Try 3rd
	assert.False(t, c.TryAcquireRequest())

	// Blocking acquire times out
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireRequest(ctx), context.DeadlineExceeded)

	// Release 1
	c.ReleaseRequest()
	assert.Equal(t, int64(1), c.InFlight())

	// Try 3rd again
	assert.True(t, c.TryAcquireRequest())
	assert.Equal(t, int64(2), c.InFlight())
}

func TestController_DefaultRequests(t *testing.T) {
	c := NewController(Config{})
	assert.True(t, c.TryAcquireRequest())
	assert.False(t, c.TryAcquireRequest())
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	// The bucket starts full.
	assert.True(t, c.TryAcquireIO(1000))
	assert.False(t, c.TryAcquireIO(500))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireIO(ctx, 500))
}

func TestController_IOLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	// 1.5x burst is admitted in chunks rather than rejected.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.AcquireIO(ctx, 3<<19))
}

func TestController_Unlimited(t *testing.T) {
	c := NewController(Config{MaxConcurrentRequests: 1})
	assert.NoError(t, c.AcquireIO(context.Background(), 1<<30))
	assert.True(t, c.TryAcquireIO(1<<30))
}

func TestController_NilChecks(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireRequest(context.Background()))
	assert.True(t, c.TryAcquireRequest())
	assert.NoError(t, c.AcquireIO(context.Background(), 10))
	assert.True(t, c.TryAcquireIO(10))
	assert.Zero(t, c.InFlight())
	c.ReleaseRequest() // Should not panic
}
