package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentiguard/internal/adapters/config"
	"sentiguard/internal/testsupport"
)

func TestClient_PushCapped(t *testing.T) {
	rdb, mr := testsupport.NewRedisClient(t)
	c := NewFromClient(rdb)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, c.PushCapped(ctx, "list", map[string]int{"n": i}, 3, time.Hour))
	}

	raw, err := c.Range(ctx, "list", 0)
	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.JSONEq(t, `{"n":5}`, string(raw[0]))
	assert.JSONEq(t, `{"n":3}`, string(raw[2]))

	assert.Equal(t, time.Hour, mr.TTL("list"))

	head, err := c.Range(ctx, "list", 1)
	require.NoError(t, err)
	assert.Len(t, head, 1)
}

func TestClient_HealthAndDelete(t *testing.T) {
	rdb, mr := testsupport.NewRedisClient(t)
	c := NewFromClient(rdb)
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))
	require.NoError(t, c.PushCapped(ctx, "k", "v", 0, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))

	mr.Close()
	assert.Error(t, c.Health(ctx))
}

func TestNewClient_PingsOnConnect(t *testing.T) {
	_, mr := testsupport.NewRedisClient(t)
	ctx := context.Background()

	host, port := mr.Host(), portOf(t, mr.Port())

	c, err := NewClient(ctx, config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Health(ctx))

	mr.Close()
	_, err = NewClient(ctx, config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

func TestClient_Integration(t *testing.T) {
	cfg := testsupport.RedisConfigFromEnv(t)
	ctx := context.Background()

	c, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	defer c.Close()

	key := "sentiguard:test:" + t.Name()
	t.Cleanup(func() { _ = c.Delete(context.Background(), key) })

	require.NoError(t, c.PushCapped(ctx, key, "a", 2, time.Minute))
	require.NoError(t, c.PushCapped(ctx, key, "b", 2, time.Minute))
	require.NoError(t, c.PushCapped(ctx, key, "c", 2, time.Minute))

	raw, err := c.Range(ctx, key, 0)
	require.NoError(t, err)
	assert.Len(t, raw, 2)
}

func portOf(t *testing.T, port string) int {
	t.Helper()
	n, err := strconv.Atoi(port)
	require.NoError(t, err)
	return n
}
