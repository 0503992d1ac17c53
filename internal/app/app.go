package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/parasjain182005/Travel-Website/internal/auth"
	"github.com/parasjain182005/Travel-Website/internal/config"
	"github.com/parasjain182005/Travel-Website/internal/event"
	handler "github.com/parasjain182005/Travel-Website/internal/handler/http"
	"github.com/parasjain182005/Travel-Website/internal/migrations"
	"github.com/parasjain182005/Travel-Website/internal/repository/postgres"
	esengine "github.com/parasjain182005/Travel-Website/internal/search/elasticsearch"
	"github.com/parasjain182005/Travel-Website/internal/service"
	"github.com/parasjain182005/Travel-Website/pkg/database"
	"github.com/parasjain182005/Travel-Website/pkg/health"
	pkgkafka "github.com/parasjain182005/Travel-Website/pkg/kafka"
	"github.com/parasjain182005/Travel-Website/pkg/middleware"
	"github.com/parasjain182005/Travel-Website/pkg/tracing"
)

// processedEventTTL bounds how long consumed event IDs are remembered.
const processedEventTTL = 24 * time.Hour

// App wires together all dependencies and runs the travel API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	consumer       *pkgkafka.Consumer
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTelEndpoint,
		SampleRate:     cfg.OTelSampleRate,
		Enabled:        cfg.OTelEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL")

	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, cfg.ServiceName); err != nil {
		logger.Warn("register pool metrics", slog.String("error", err.Error()))
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	}

	// Redis backs the shared rate limiter and event deduplication. Both
	// degrade to in-process state without it.
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, using in-process fallbacks", slog.String("error", err.Error()))
		} else {
			a.redis = rdb
			logger.Info("connected to Redis")
		}
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	tourRepo := postgres.NewTourRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)

	aggregator := service.NewRatingAggregator(tourRepo, reviewRepo, logger)
	dispatcher, err := a.newDispatcher(aggregator)
	if err != nil {
		a.closeStores()
		return nil, err
	}

	tourService := service.NewTourService(tourRepo, reviewRepo, logger)
	var searchEngine *esengine.Engine
	if cfg.ElasticsearchURL != "" {
		searchEngine, err = esengine.New(ctx, cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			logger.Warn("elasticsearch unavailable, using database search", slog.String("error", err.Error()))
			searchEngine = nil
		} else {
			tourService.UseSearchIndex(searchEngine)
			if _, err := tourService.ReindexSearch(ctx); err != nil {
				logger.Warn("search reindex failed", slog.String("error", err.Error()))
			}
		}
	}

	services := handler.Services{
		Tours:    tourService,
		Reviews:  service.NewReviewService(reviewRepo, tourRepo, aggregator, dispatcher, logger),
		Users:    service.NewUserService(userRepo, jwtManager, logger),
		Bookings: service.NewBookingService(bookingRepo, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.redis != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}
	if searchEngine != nil {
		healthHandler.RegisterNonCritical("elasticsearch", searchEngine.Ping)
	}
	if a.producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return a.producer.Ping(ctx)
		})
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(services, jwtManager.TokenValidator(), healthHandler, handler.RouterConfig{
		ServiceName:    cfg.ServiceName,
		CORS:           corsCfg,
		RequestTimeout: cfg.RequestTimeout,
		SecureCookies:  !cfg.IsDevelopment(),
		RateLimiter: middleware.NewRateLimiter(a.redis, middleware.RateLimitConfig{
			Requests: cfg.RateLimitRequests,
			Window:   cfg.RateLimitWindow,
		}, logger),
		PprofCIDRs: cfg.PprofAllowedCIDRs,
	}, logger)

	a.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// newDispatcher selects how review writes reach the rating cache. Queued
// mode also builds the Kafka producer and the rating consumer.
func (a *App) newDispatcher(aggregator *service.RatingAggregator) (service.ReviewEventDispatcher, error) {
	switch a.cfg.RatingDispatchMode {
	case config.DispatchSync:
		a.logger.Info("rating dispatch: sync")
		return service.NewSyncDispatcher(aggregator), nil
	case config.DispatchQueued:
	default:
		return nil, fmt.Errorf("unknown rating dispatch mode %q", a.cfg.RatingDispatchMode)
	}

	a.producer = pkgkafka.NewProducer(pkgkafka.ProducerConfig{Brokers: a.cfg.KafkaBrokers}, a.logger)

	var store pkgkafka.IdempotencyStore
	if a.redis != nil {
		store = pkgkafka.NewRedisIdempotencyStore(a.redis, "travel:rating:processed:", processedEventTTL)
	} else {
		store = pkgkafka.NewMemoryIdempotencyStore(processedEventTTL)
	}

	a.consumer = event.NewRatingConsumer(pkgkafka.ConsumerConfig{
		Brokers:    a.cfg.KafkaBrokers,
		GroupID:    a.cfg.KafkaConsumerGroup,
		Topic:      event.TopicReviewEvents,
		MaxRetries: 3,
		RetryWait:  200 * time.Millisecond,
	}, aggregator, store, a.producer, a.logger)

	a.logger.Info("rating dispatch: queued",
		slog.Any("brokers", a.cfg.KafkaBrokers),
		slog.String("topic", event.TopicReviewEvents),
	)
	return event.NewQueuedDispatcher(a.producer, a.logger), nil
}

// Run starts the HTTP server and, in queued mode, the rating consumer. It
// blocks until ctx is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	var wg sync.WaitGroup
	if a.consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.consumer.Start(consumerCtx); err != nil {
				errCh <- fmt.Errorf("rating consumer: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("component failed", slog.String("error", runErr.Error()))
	}

	stopConsumer()
	wg.Wait()
	return errors.Join(runErr, a.Shutdown())
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka consumer and producer
// 3. Tracer (flush pending spans)
// 4. Redis client and PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.closeStores()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeStores() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
