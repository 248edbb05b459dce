package cache

import (
	"context"
	"testing"
	"time"

	"hotgist/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestClient_JSONRoundTrip(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()

	found, err := c.GetJSON(ctx, "k", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "fire", Count: 3}, time.Minute))

	var got payload
	found, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "fire", Count: 3}, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after ttl")
}

func TestClient_Invalidate(t *testing.T) {
	mr, c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, EngagementKey("p1"), payload{Count: 1}, time.Minute))
	require.True(t, mr.Exists("engagement:p1"))

	require.NoError(t, c.Invalidate(ctx, EngagementKey("p1")))
	assert.False(t, mr.Exists("engagement:p1"))
}

func TestClient_Disabled(t *testing.T) {
	var nilClient *Client
	ctx := context.Background()

	for _, c := range []*Client{nilClient, New(nil)} {
		assert.False(t, c.Enabled())
		assert.Nil(t, c.Redis())
		found, err := c.GetJSON(ctx, "k", &payload{})
		assert.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, c.SetJSON(ctx, "k", payload{}, time.Minute))
		assert.NoError(t, c.Invalidate(ctx, "k"))
		assert.Error(t, c.Ping(ctx))
	}
}

func TestClient_ErrorOnClosedServer(t *testing.T) {
	mr, c := newTestClient(t)
	mr.Close()

	_, err := c.GetJSON(context.Background(), "k", &payload{})
	assert.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	c := Connect("127.0.0.1:1", observability.NopLogger())
	assert.False(t, c.Enabled())
}

func TestConnect_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	c := Connect("redis://"+mr.Addr()+"/0", observability.NopLogger())
	t.Cleanup(func() { _ = c.Close() })
	assert.True(t, c.Enabled())
	assert.NoError(t, c.Ping(context.Background()))
}
