package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_ORDER_TOPIC",
		"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"SESSION_TTL_HOURS", "IDEMPOTENCY_TTL_HOURS", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr())
	require.Empty(t, cfg.PostgresDSN)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "marketplace.orders", cfg.KafkaOrderTopic)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	require.False(t, cfg.TemporalDisabled)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "48")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Addr())
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 48*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadConfig_RejectsInvalidNumbers(t *testing.T) {
	cases := map[string]string{
		"SESSION_TTL_HOURS":     "zero",
		"IDEMPOTENCY_TTL_HOURS": "-1",
		"PORT":                  "http",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
