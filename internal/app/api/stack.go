package api

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogmemory "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	orderskafka "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/kafka"
	ordersmemory "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/persistence/postgres"
	ordersredis "github.com/Apurer/go-gin-marketplace/internal/domains/orders/adapters/redis"
	ordersapp "github.com/Apurer/go-gin-marketplace/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	usersmemory "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/memory"
	userspostgres "github.com/Apurer/go-gin-marketplace/internal/domains/users/adapters/persistence/postgres"
	usersports "github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	platformkafka "github.com/Apurer/go-gin-marketplace/internal/platform/kafka"
	"github.com/Apurer/go-gin-marketplace/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-marketplace/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-marketplace/internal/platform/redis"
)

// Stores holds the repositories shared by the API and the worker. Transactor
// is nil for the in-memory adapters.
type Stores struct {
	Products    catalogports.Repository
	Orders      ordersports.Repository
	Idempotency ordersports.IdempotencyStore
	Transactor  ordersports.Transactor
	Users       usersports.Repository
	Sessions    usersports.SessionStore
}

// OpenStores connects PostgreSQL and Redis as configured. Either backend
// falling over leaves the process on the next best adapter rather than failing.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func()) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	stores := memoryStores()
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
	} else if db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN); err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory repositories", slog.String("error", err.Error()))
	} else if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	} else {
		if sqlDB, err := db.DB(); err == nil {
			cleanups = append(cleanups, func() { _ = sqlDB.Close() })
		}
		stores = &Stores{
			Products:    catalogpostgres.NewRepository(db),
			Orders:      orderspostgres.NewRepository(db),
			Idempotency: orderspostgres.NewIdempotencyStore(db),
			Transactor:  orderspostgres.NewTransactor(db),
			Users:       userspostgres.NewRepository(db),
			Sessions:    userspostgres.NewSessionStore(db),
		}
		logger.Info("repositories configured with postgres")
	}

	if cfg.RedisAddr != "" {
		redisClient, err := platformredis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("failed to connect to redis, idempotency keys stay in the primary store", slog.String("error", err.Error()))
		} else {
			cleanups = append(cleanups, func() { _ = redisClient.Close() })
			stores.Idempotency = ordersredis.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
			logger.Info("idempotency keys configured with redis", slog.String("addr", cfg.RedisAddr))
		}
	}
	return stores, cleanup
}

func memoryStores() *Stores {
	return &Stores{
		Products:    catalogmemory.NewRepository(),
		Orders:      ordersmemory.NewRepository(),
		Idempotency: ordersmemory.NewIdempotencyStore(),
		Users:       usersmemory.NewRepository(),
		Sessions:    usersmemory.NewSessionStore(),
	}
}

// OpenEventPublisher returns a Kafka publisher when brokers are configured
// and a publisher that drops events otherwise.
func OpenEventPublisher(cfg Config, producer string, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, order events are discarded")
		return ordersports.NoopPublisher{}, func() {}
	}
	writer := platformkafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	logger.Info("order events published to kafka", slog.String("topic", writer.Topic))
	return orderskafka.NewPublisher(writer, producer, logger), func() { closeWriter(writer, logger) }
}

func closeWriter(writer *kafkago.Writer, logger *slog.Logger) {
	if err := writer.Close(); err != nil {
		logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
	}
}

// NewOrderService builds the undecorated orders service. withTx enables the
// single-transaction placement when the stores support it.
func NewOrderService(stores *Stores, events ordersports.EventPublisher, withTx bool) *ordersapp.Service {
	opts := []ordersapp.Option{
		ordersapp.WithIdempotencyStore(stores.Idempotency),
		ordersapp.WithEventPublisher(events),
	}
	if withTx && stores.Transactor != nil {
		opts = append(opts, ordersapp.WithTransactor(stores.Transactor))
	}
	return ordersapp.NewService(stores.Orders, stores.Products, opts...)
}

// DialTemporal connects a traced Temporal client.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: instruments.Tracer(tracerName)})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
