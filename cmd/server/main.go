package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirsalarsafaei/sqlc-pgx-monitoring/dbtracer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"paymentservice/config"
	"paymentservice/internal/api"
	"paymentservice/internal/events"
	"paymentservice/internal/geo"
	"paymentservice/internal/metrics"
	"paymentservice/internal/notify"
	"paymentservice/internal/payments"
	"paymentservice/internal/payments/handlers"
	"paymentservice/internal/payments/workers"
)

type publisher interface {
	payments.EventPublisher
	Close() error
}

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := config.NewLogger(appConfig.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracer, err := config.InitTracer(appConfig.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Failed to flush traces", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	store, closeStore := setupStore(appConfig, logger)
	defer closeStore()

	httpClient := setupHTTPClient(appConfig)

	notificationPool := workers.NewPool("notification", appConfig.Workers.NotificationSize, appConfig.Workers.NotificationQueue, m, logger)
	notificationPool.Start()
	defer notificationPool.Stop()

	geoPool := workers.NewPool("geolocation", appConfig.Workers.GeoSize, appConfig.Workers.GeoQueue, m, logger)
	geoPool.Start()
	defer geoPool.Stop()

	dispatcher := notify.NewDispatcher(
		notify.NewClient("service-one", appConfig.Notification.ServiceOneURL, appConfig.Notification.Recipient, httpClient, logger),
		notify.NewClient("service-two", appConfig.Notification.ServiceTwoURL, appConfig.Notification.Recipient, httpClient, logger),
	)

	var countryCache geo.Cache
	if appConfig.Redis.URL != "" {
		redisClient := setupRedisClient(appConfig, logger)
		defer redisClient.Close()
		countryCache = geo.NewRedisCache(redisClient, appConfig.Redis.GeoTTL)
	}
	resolver := geo.NewResolver(appConfig.Geo.URL, httpClient, countryCache, logger)
	tracker := geo.NewTracker(resolver, geoPool, logger)

	eventPublisher := setupPublisher(appConfig, logger)
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	service := payments.NewService(store, payments.DefaultPolicy(), dispatcher, notificationPool, eventPublisher, m, logger)
	paymentHandler := handlers.NewPaymentHandler(service, tracker, logger)

	e := api.NewRouter(api.RouterConfig{
		ServiceName:    appConfig.Telemetry.ServiceName,
		TracingEnabled: appConfig.Telemetry.Enabled,
		Gatherer:       registry,
	}, paymentHandler, logger)

	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	go func() {
		logger.Info("Payment service starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain background work while the store and redis are still open.
	notificationPool.Stop()
	geoPool.Stop()

	logger.Info("Server exited")
}

func setupStore(appConfig *config.AppConfig, logger *zap.Logger) (payments.Store, func()) {
	if appConfig.Store.Driver == "memory" {
		logger.Info("Using in-memory payment store")
		return payments.NewMemoryStore(), func() {}
	}

	dbConfig, err := pgxpool.ParseConfig(appConfig.Postgres.URL)
	if err != nil {
		logger.Fatal("Invalid postgres url", zap.Error(err))
	}

	if appConfig.Telemetry.Enabled {
		dbTracer, err := dbtracer.NewDBTracer("payments")
		if err != nil {
			logger.Fatal("Failed to create database tracer", zap.Error(err))
		}
		dbConfig.ConnConfig.Tracer = dbTracer
	}

	dbpool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}

	store := payments.NewPgStore(dbpool)
	if err := store.Migrate(context.Background()); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	return store, dbpool.Close
}

// setupHTTPClient builds the client shared by the notification and
// geolocation callouts. The dial timeout bounds connecting and the response
// header timeout bounds waiting for the upstream to answer.
func setupHTTPClient(appConfig *config.AppConfig) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   appConfig.HTTPClient.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 16,

		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: appConfig.HTTPClient.ReadTimeout,
	}

	var rt http.RoundTripper = transport
	if appConfig.Telemetry.Enabled {
		rt = otelhttp.NewTransport(transport)
	}

	return &http.Client{
		Transport: rt,
		Timeout:   appConfig.HTTPClient.ConnectTimeout + appConfig.HTTPClient.ReadTimeout,
	}
}

func setupRedisClient(appConfig *config.AppConfig, logger *zap.Logger) *redis.Client {
	opt, err := redis.ParseURL(appConfig.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to parse Redis URL", zap.Error(err))
	}

	redisClient := redis.NewClient(opt)

	if appConfig.Telemetry.Enabled {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Fatal("Failed to instrument Redis tracing", zap.Error(err))
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Fatal("Failed to instrument Redis metrics", zap.Error(err))
		}
	}

	return redisClient
}

func setupPublisher(appConfig *config.AppConfig, logger *zap.Logger) publisher {
	brokers := appConfig.Kafka.BrokerList()
	if len(brokers) == 0 {
		logger.Info("No Kafka brokers configured, payment events are disabled")
		return events.NoopPublisher{}
	}
	return events.NewKafkaPublisher(brokers, appConfig.Kafka.TopicCreated, appConfig.Kafka.TopicCancelled, logger)
}
