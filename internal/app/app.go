package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivklim/airport-api/internal/config"
	"github.com/ivklim/airport-api/internal/kafka"
	"github.com/ivklim/airport-api/internal/metrics"
	"github.com/ivklim/airport-api/internal/postgres"
	"github.com/ivklim/airport-api/internal/redis"
	postgresrepo "github.com/ivklim/airport-api/internal/repository/postgres"
	redisrepo "github.com/ivklim/airport-api/internal/repository/redis"
	"github.com/ivklim/airport-api/internal/service"
	"github.com/ivklim/airport-api/internal/service/auth"
	"github.com/ivklim/airport-api/internal/service/booking"
	"github.com/ivklim/airport-api/internal/service/catalog"
	"github.com/ivklim/airport-api/internal/service/query"
	httpgin "github.com/ivklim/airport-api/internal/transport/http/gin"
	"github.com/ivklim/airport-api/internal/uow"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	closers    []func() error
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	var closers []func() error
	closers = append(closers, func() error { pgxPool.Close(); return nil }, rdb.Close)

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	unit := uow.New(store)
	cache := redisrepo.New(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "orders", 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	m := metrics.New("airportapi")

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		closers = append(closers, kp.Close)
		producer = kp
	} else {
		logger.Warn("kafka brokers not configured, order events disabled")
	}

	media, err := catalog.NewFileStore(cfg.Media.Dir, cfg.Media.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	// Initialize services
	services := &service.Services{
		Auth:    auth.New(store.Users(), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		Booking: booking.New(store.Flights(), store.Orders(), cache, producer, limiter, m),
		Catalog: catalog.New(store, unit, cache, media, logger),
		Query: query.New(
			store.Catalog(),
			store.Fleet(),
			store.Flights(),
			store.Orders(),
			cache,
			query.Config{DefaultLimit: 20, MaxLimit: 100, FlightTTL: 30 * time.Second},
		),
	}

	// Initialize Gin router
	router := httpgin.NewRouter(
		services,
		idempotencyStore,
		media.Dir(),
		logger,
		httpgin.MetricsMiddleware(m),
	)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		closers: closers,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()

	for _, closeFn := range a.closers {
		if cerr := closeFn(); cerr != nil {
			a.logger.Error("failed to close resource", "error", cerr)
		}
	}

	return err
}
