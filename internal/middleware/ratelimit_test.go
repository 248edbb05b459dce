package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "reactions", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "reactions", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.True(t, mr.TTL("rl:reactions:ip:1.2.3.4") > 0)

	mr.FastForward(2 * time.Minute)
	allowed, err = CheckRateLimit(ctx, rdb, "reactions", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_NilClient(t *testing.T) {
	allowed, err := CheckRateLimit(context.Background(), nil, "r", "id", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		cfg        RateLimitConfig
		nilRedis   bool
		requests   int
		wantStatus int
	}{
		{
			name:       "disabled passes everything",
			cfg:        RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute},
			requests:   3,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "limit exceeded",
			cfg:        RateLimitConfig{Enabled: true, Limit: 2, Window: time.Minute, Name: "writes"},
			requests:   3,
			wantStatus: fiber.StatusTooManyRequests,
		},
		{
			name:       "nil redis fails open",
			cfg:        RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute},
			nilRedis:   true,
			requests:   2,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "nil redis fails closed",
			cfg:        RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Policy: FailClosed},
			nilRedis:   true,
			requests:   1,
			wantStatus: fiber.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rdb *redis.Client
			if !tt.nilRedis {
				_, rdb = newTestRedis(t)
			}

			app := fiber.New()
			app.Post("/x", RateLimit(rdb, tt.cfg), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			var status int
			for i := 0; i < tt.requests; i++ {
				resp, err := app.Test(httptest.NewRequest("POST", "/x", nil))
				require.NoError(t, err)
				status = resp.StatusCode
			}
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
