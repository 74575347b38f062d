package testsupport

import (
	"fmt"
	"os"
	"testing"

	"sentiguard/internal/adapters/config"
)

// RedisConfigFromEnv reads a real Redis endpoint for integration tests.
// The test is skipped unless INTEGRATION_REDIS_HOST is set.
func RedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()

	host := os.Getenv("INTEGRATION_REDIS_HOST")
	if host == "" {
		t.Skip("integration environment missing, set INTEGRATION_REDIS_HOST to run")
	}

	return config.RedisConfig{
		Host:         host,
		Port:         intValue("INTEGRATION_REDIS_PORT", 6379),
		Password:     os.Getenv("INTEGRATION_REDIS_PASSWORD"),
		DB:           intValue("INTEGRATION_REDIS_DB", 15),
		HistoryLimit: 20,
	}
}

func intValue(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
	}

	return fallback
}
