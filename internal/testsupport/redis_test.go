package testsupport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_IsolatedPerTest(t *testing.T) {
	client, mr := NewRedisClient(t)

	require.NoError(t, client.Set(context.Background(), "integration-key", "value", 0).Err())

	val, err := client.Get(context.Background(), "integration-key").Result()
	require.NoError(t, err)
	assert.Equal(t, "value", val)
	assert.True(t, mr.Exists("integration-key"))
}

func TestRedisConfigFromEnv(t *testing.T) {
	t.Setenv("INTEGRATION_REDIS_HOST", "redis.local")
	t.Setenv("INTEGRATION_REDIS_PORT", "6380")
	t.Setenv("INTEGRATION_REDIS_DB", "not-a-number")

	cfg := RedisConfigFromEnv(t)

	assert.Equal(t, "redis.local:6380", cfg.Addr())
	assert.Equal(t, 15, cfg.DB)
	assert.True(t, cfg.Enabled())
}
