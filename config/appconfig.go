package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL    string        `mapstructure:"url"`
	GeoTTL time.Duration `mapstructure:"geo_ttl"`
}

type KafkaConfig struct {
	Brokers        string `mapstructure:"brokers"`
	TopicCreated   string `mapstructure:"topic_created"`
	TopicCancelled string `mapstructure:"topic_cancelled"`
}

// BrokerList splits the comma separated broker addresses.
func (k *KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	JaegerURL   string `mapstructure:"jaeger_url"`
}

type NotificationConfig struct {
	ServiceOneURL string `mapstructure:"service_one_url"`
	ServiceTwoURL string `mapstructure:"service_two_url"`
	Recipient     string `mapstructure:"recipient"`
}

type GeoConfig struct {
	URL string `mapstructure:"url"`
}

type WorkersConfig struct {
	NotificationSize  int `mapstructure:"notification_size"`
	NotificationQueue int `mapstructure:"notification_queue"`
	GeoSize           int `mapstructure:"geo_size"`
	GeoQueue          int `mapstructure:"geo_queue"`
}

type HTTPClientConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
}

type AppConfig struct {
	Server       *ServerConfig       `mapstructure:"server"`
	Log          *LogConfig          `mapstructure:"log"`
	Store        *StoreConfig        `mapstructure:"store"`
	Postgres     *PostgresConfig     `mapstructure:"postgres"`
	Redis        *RedisConfig        `mapstructure:"redis"`
	Kafka        *KafkaConfig        `mapstructure:"kafka"`
	Telemetry    *TelemetryConfig    `mapstructure:"telemetry"`
	Notification *NotificationConfig `mapstructure:"notification"`
	Geo          *GeoConfig          `mapstructure:"geo"`
	Workers      *WorkersConfig      `mapstructure:"workers"`
	HTTPClient   *HTTPClientConfig   `mapstructure:"http"`
}

func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("postgres.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.geo_ttl", 24*time.Hour)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic_created", "payment.created")
	v.SetDefault("kafka.topic_cancelled", "payment.cancelled")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "payment-service")
	v.SetDefault("telemetry.jaeger_url", "http://jaeger:14268/api/traces")
	v.SetDefault("notification.service_one_url", "https://api.github.com/users/")
	v.SetDefault("notification.service_two_url", "https://api.github.com/orgs/")
	v.SetDefault("notification.recipient", "payments")
	v.SetDefault("geo.url", "https://get.geojs.io/v1/ip/geo/")
	v.SetDefault("workers.notification_size", 5)
	v.SetDefault("workers.notification_queue", 100)
	v.SetDefault("workers.geo_size", 2)
	v.SetDefault("workers.geo_queue", 100)
	v.SetDefault("http.connect_timeout", 3*time.Second)
	v.SetDefault("http.read_timeout", 5*time.Second)

	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("store.driver", "STORE_DRIVER")
	_ = v.BindEnv("postgres.url", "POSTGRES_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("redis.geo_ttl", "REDIS_GEO_TTL")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("kafka.topic_created", "KAFKA_TOPIC_CREATED")
	_ = v.BindEnv("kafka.topic_cancelled", "KAFKA_TOPIC_CANCELLED")
	_ = v.BindEnv("telemetry.enabled", "TELEMETRY_ENABLED")
	_ = v.BindEnv("telemetry.service_name", "TELEMETRY_SERVICE_NAME")
	_ = v.BindEnv("telemetry.jaeger_url", "JAEGER_URL")
	_ = v.BindEnv("notification.service_one_url", "NOTIFICATION_SERVICE_ONE_URL")
	_ = v.BindEnv("notification.service_two_url", "NOTIFICATION_SERVICE_TWO_URL")
	_ = v.BindEnv("notification.recipient", "NOTIFICATION_RECIPIENT")
	_ = v.BindEnv("geo.url", "GEO_URL")
	_ = v.BindEnv("workers.notification_size", "WORKERS_NOTIFICATION_SIZE")
	_ = v.BindEnv("workers.notification_queue", "WORKERS_NOTIFICATION_QUEUE")
	_ = v.BindEnv("workers.geo_size", "WORKERS_GEO_SIZE")
	_ = v.BindEnv("workers.geo_queue", "WORKERS_GEO_QUEUE")
	_ = v.BindEnv("http.connect_timeout", "HTTP_CONNECT_TIMEOUT")
	_ = v.BindEnv("http.read_timeout", "HTTP_READ_TIMEOUT")

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if config.Store.Driver == "postgres" && config.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres.url is required when store.driver is postgres")
	}

	return &config, nil
}
