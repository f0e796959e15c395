package ratelimit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/pandabuds-shop/internal/ratelimit"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory_SixthAttemptRejected(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)}
	limiter := ratelimit.NewMemory(time.Minute, 5).WithClock(clock.Now)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, ok, "attempt %d should pass", i)
		clock.Advance(time.Second)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, ok, "6th attempt inside the window must be rejected")

	// другой клиент не затронут
	ok, _ = limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, ok)
}

func TestMemory_WindowRollsOver(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)}
	limiter := ratelimit.NewMemory(time.Minute, 5).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, _ = limiter.Allow(ctx, "client")
	}
	ok, _ := limiter.Allow(ctx, "client")
	assert.False(t, ok)

	clock.Advance(61 * time.Second)
	ok, err := limiter.Allow(ctx, "client")
	assert.NoError(t, err)
	assert.True(t, ok, "attempt after the window should pass")
}

func TestMemory_ConcurrentAllowCountsEveryAttempt(t *testing.T) {
	limiter := ratelimit.NewMemory(time.Hour, 50)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := limiter.Allow(ctx, "shared")
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMemory_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)}
	limiter := ratelimit.NewMemory(time.Minute, 5).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = limiter.Allow(ctx, fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, 0, limiter.Sweep())

	clock.Advance(2 * time.Minute)
	_, _ = limiter.Allow(ctx, "fresh")
	assert.Equal(t, 3, limiter.Sweep())
}

func TestRedis_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := ratelimit.NewRedis(client, "orders", time.Minute, 5)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, ok, "attempt %d should pass", i)
	}
	ok, err := limiter.Allow(ctx, "10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, ok)

	ttl := mr.TTL("orders:ratelimit:10.0.0.1")
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	mr.FastForward(61 * time.Second)
	ok, err = limiter.Allow(ctx, "10.0.0.1")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_KeyWithoutTTLGetsWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	// счетчик, оставшийся без TTL, не должен блокировать клиента навсегда
	assert.NoError(t, mr.Set("orders:ratelimit:10.0.0.2", "9"))
	assert.Equal(t, time.Duration(0), mr.TTL("orders:ratelimit:10.0.0.2"))

	limiter := ratelimit.NewRedis(client, "orders", time.Minute, 5)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "10.0.0.2")
	assert.NoError(t, err)
	assert.False(t, ok)

	ttl := mr.TTL("orders:ratelimit:10.0.0.2")
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	mr.FastForward(61 * time.Second)
	ok, err = limiter.Allow(ctx, "10.0.0.2")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_BackendUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	limiter := ratelimit.NewRedis(client, "orders", time.Minute, 5)
	ok, err := limiter.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.False(t, ok)
}
