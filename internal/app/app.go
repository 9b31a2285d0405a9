package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hamdiboyraz/restaurant-review/internal/auth"
	"github.com/hamdiboyraz/restaurant-review/internal/config"
	"github.com/hamdiboyraz/restaurant-review/internal/event"
	handler "github.com/hamdiboyraz/restaurant-review/internal/handler/http"
	"github.com/hamdiboyraz/restaurant-review/internal/repository"
	"github.com/hamdiboyraz/restaurant-review/internal/repository/cache"
	esrepo "github.com/hamdiboyraz/restaurant-review/internal/repository/elasticsearch"
	"github.com/hamdiboyraz/restaurant-review/internal/repository/memory"
	pgrepo "github.com/hamdiboyraz/restaurant-review/internal/repository/postgres"
	"github.com/hamdiboyraz/restaurant-review/internal/service"
	"github.com/hamdiboyraz/restaurant-review/internal/storage"
	fsstorage "github.com/hamdiboyraz/restaurant-review/internal/storage/fs"
	memstorage "github.com/hamdiboyraz/restaurant-review/internal/storage/memory"
	"github.com/hamdiboyraz/restaurant-review/pkg/database"
	"github.com/hamdiboyraz/restaurant-review/pkg/health"
	pkgkafka "github.com/hamdiboyraz/restaurant-review/pkg/kafka"
	"github.com/hamdiboyraz/restaurant-review/pkg/tracing"
)

// App wires together all dependencies and runs the restaurant service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	httpServer      *http.Server
	kafkaProducer   *pkgkafka.Producer
	closers         []func() error
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// The "memory" repository backend runs the service entirely in-process, with
// no external stores; it exists for local development and testing.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}
	healthHandler := health.NewHandler()

	// Tracing is off unless explicitly enabled.
	tracingCfg := tracing.DefaultConfig("restaurant-service")
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingCfg.OTLPEndpoint = cfg.TracingEndpoint
	shutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracingShutdown = shutdown

	// Restaurant repository.
	var restaurantRepo repository.RestaurantRepository
	var photoRepo repository.PhotoRepository

	switch cfg.RepositoryBackend {
	case "elasticsearch":
		esRepo, err := esrepo.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("init elasticsearch repository: %w", err)
		}
		restaurantRepo = esRepo
		healthHandler.Register("elasticsearch", esRepo.Ping)
		logger.Info("elasticsearch repository initialized",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)

		if cfg.CacheEnabled {
			redisCfg := database.RedisConfig{
				Host: cfg.RedisHost,
				Port: cfg.RedisPort,
				DB:   cfg.RedisDB,
			}
			redisClient, err := database.NewRedisClient(ctx, redisCfg)
			if err != nil {
				return nil, fmt.Errorf("init redis client: %w", err)
			}
			a.closers = append(a.closers, redisClient.Close)

			cached := cache.New(restaurantRepo, redisClient, cfg.CacheTTL, logger)
			restaurantRepo = cached
			healthHandler.Register("redis", cached.Ping)
			logger.Info("restaurant cache initialized",
				slog.String("addr", redisCfg.Addr()),
				slog.Duration("ttl", cfg.CacheTTL),
			)
		}

		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPassword
		pgCfg.DBName = cfg.PostgresDB
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init postgres pool: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		healthHandler.Register("postgres", pool.Ping)
		photoRepo = pgrepo.NewPhotoRepository(pool)

	default:
		restaurantRepo = memory.New()
		photoRepo = memory.NewPhotoRepository()
		logger.Info("in-memory repositories initialized")
	}

	// Photo blob storage.
	var photoStore storage.Storage
	switch cfg.StorageBackend {
	case "fs":
		photoStore, err = fsstorage.New(cfg.StorageRoot)
		if err != nil {
			return nil, fmt.Errorf("init fs storage: %w", err)
		}
		logger.Info("filesystem photo storage initialized", slog.String("root", cfg.StorageRoot))
	default:
		photoStore = memstorage.New()
		logger.Info("in-memory photo storage initialized")
	}

	// Event publishing.
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled {
		producerCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		a.kafkaProducer = pkgkafka.NewProducer(producerCfg, logger)
		publisher = event.NewProducer(a.kafkaProducer, logger)
		healthHandler.Register("kafka", a.kafkaProducer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Service layer.
	restaurantService := service.NewRestaurantService(restaurantRepo, publisher, logger)
	reviewService := service.NewReviewService(restaurantRepo, publisher, logger)
	photoService := service.NewPhotoService(photoStore, photoRepo, logger)

	// Identity.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)

	// HTTP router.
	router := handler.NewRouter(
		restaurantService,
		reviewService,
		photoService,
		jwtManager.Validate,
		healthHandler,
		logger,
	)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	for _, closer := range a.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
