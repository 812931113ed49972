package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "https://api.github.com/users/", cfg.Notification.ServiceOneURL)
	assert.Equal(t, "https://api.github.com/orgs/", cfg.Notification.ServiceTwoURL)
	assert.Equal(t, "https://get.geojs.io/v1/ip/geo/", cfg.Geo.URL)
	assert.Equal(t, 5, cfg.Workers.NotificationSize)
	assert.Equal(t, 100, cfg.Workers.NotificationQueue)
	assert.Equal(t, 2, cfg.Workers.GeoSize)
	assert.Equal(t, 3*time.Second, cfg.HTTPClient.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPClient.ReadTimeout)
	assert.Empty(t, cfg.Kafka.BrokerList())
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://payments:secret@db:5432/payments")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HTTP_READ_TIMEOUT", "750ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("WORKERS_GEO_QUEUE", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTPClient.ReadTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.BrokerList())
	assert.Equal(t, 10, cfg.Workers.GeoQueue)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_URL", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&LogConfig{Level: "debug"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(&LogConfig{Level: "chatty"})
	assert.Error(t, err)
}

func TestInitTracerDisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracer(&TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(t.Context()))
}
