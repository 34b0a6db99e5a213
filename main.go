package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/repositories"
	"storefront/internal/seed"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(database.Config{
		Driver:             cfg.DatabaseDriver,
		DSN:                cfg.DatabaseDSN,
		SlowQueryThreshold: 200 * time.Millisecond,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if cfg.SeedProducts {
		if _, err := seed.Products(ctx, repositories.NewGORMStore(db), log); err != nil {
			return err
		}
	}

	// --- Sessions ---
	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	// --- Events ---
	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close event publisher", "error", err)
		}
	}()

	app := server.NewApp(server.Options{
		DB:            db,
		Sessions:      sessions,
		Publisher:     publisher,
		Metrics:       metrics.New(),
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		SessionCookie: cfg.SessionCookie,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.AppEnv == "prod",
		AccessLog:     os.Stdout,
	})

	// --- Start HTTP Server ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.AppPort, "db_driver", cfg.DatabaseDriver,
			"sessions", cfg.SessionBackend, "events", cfg.EventsBroker)
		return app.Listen(cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server gracefully stopped")
	return nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}

func newPublisher(cfg *config.Config, log *slog.Logger) (events.Publisher, error) {
	switch cfg.EventsBroker {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: "storefront",
			Queue:    "storefront.orders",
			Bindings: []string{events.TypeOrderPlaced},
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		return events.NewRabbitMQPublisher(client), nil
	case "kafka":
		producer, err := kafka.NewProducer(kafka.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Kafka producer: %w", err)
		}
		return events.NewKafkaPublisher(producer), nil
	default:
		return events.NopPublisher{}, nil
	}
}
