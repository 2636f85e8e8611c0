package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/prettystyles/booking-api/internal/config"
	"github.com/prettystyles/booking-api/internal/email"
	"github.com/prettystyles/booking-api/internal/repository/postgres"
	"github.com/prettystyles/booking-api/internal/worker"
	"github.com/prettystyles/booking-api/pkg/messaging/redis"
	"github.com/prettystyles/booking-api/pkg/metrics"
	pkgworker "github.com/prettystyles/booking-api/pkg/worker"
)

// workerConfig is sourced from the environment so the worker can run
// without the API's config file next to it.
type workerConfig struct {
	DB struct {
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Port         int    `envconfig:"DB_PORT" default:"5432"`
		User         string `envconfig:"DB_USER" default:"salon"`
		Password     string `envconfig:"DB_PASSWORD" default:"salon"`
		Name         string `envconfig:"DB_NAME" default:"salon"`
		SSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"2"`
	}
	Redis struct {
		URL          string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
		PoolSize     int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
		MinIdleConns int    `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	}
	SMTP struct {
		Host     string `envconfig:"SMTP_HOST" default:"localhost"`
		Port     int    `envconfig:"SMTP_PORT" default:"587"`
		Username string `envconfig:"SMTP_USERNAME"`
		Password string `envconfig:"SMTP_PASSWORD"`
		From     string `envconfig:"SMTP_FROM" default:"bookings@prettystyles.example"`
		BaseURL  string `envconfig:"BASE_URL" default:"https://prettystyles.example"`
	}
	Outbox struct {
		BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
		PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	}
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Name:         cfg.DB.Name,
		SSLMode:      cfg.DB.SSLMode,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.SMTP.BaseURL,
	})

	m := metrics.NewMetrics("salon", "worker")
	outboxRepo := postgres.NewOutboxRepository(db)

	processor := pkgworker.NewOutboxProcessor(outboxRepo, broker, pkgworker.OutboxProcessorConfig{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
	}, m)
	notifier := worker.NewNotifier(broker, emailSvc, m)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := notifier.Start(ctx); err != nil {
			log.Error().Err(err).Msg("notifier stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")

	cancel()
	wg.Wait()
	log.Info().Msg("worker exited properly")
}
