package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/firehistory/backend/internal/cache/redisstore"
	"github.com/firehistory/backend/internal/delivery/http"
	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/logger"
	"github.com/firehistory/backend/internal/metrics"
	"github.com/firehistory/backend/internal/pipeline"
	"github.com/firehistory/backend/internal/repository/postgres"
	"github.com/firehistory/backend/internal/service"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Configuration
	cfg := loadConfig()
	log := logger.Build(logger.Config{Level: cfg.LogLevel, Console: cfg.LogConsole}, os.Stdout)
	if envErr != nil {
		log.Info().Msg("no .env file found, using system environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	pool := connectPostgres(ctx, cfg, log)
	var fireRepo domain.FireRepository
	if pool != nil {
		defer pool.Close()
		fireRepo = postgres.NewPostgresRepository(pool)
	} else {
		fireRepo = postgres.NewMockRepository()
	}

	// Metrics
	provider := metrics.Init(metrics.BuildInfo{Version: "1.0.0", Env: cfg.Env})
	dashMetrics := metrics.NewDashboard(provider)

	// Dependency Injection: Services
	dashboardSvc, err := service.NewDashboardService(ctx, fireRepo,
		service.WithLogger(log.With().Str("component", "dashboard").Logger()),
		service.WithMetrics(dashMetrics),
		service.WithFireAgePolicy(pipeline.FireAgePolicy{OpenBucketMinDays: cfg.OpenBucketMinDays}),
		service.WithColor(cfg.MapColor()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load filter options")
	}
	assistant, closeCache := newAssistant(ctx, cfg, fireRepo, dashMetrics, log)
	defer closeCache()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "FireHistory API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.QueryTimeout + 5*time.Second,
		ErrorHandler: http.ErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(http.AccessLog(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	// Routes
	handler := http.NewHandler(dashboardSvc, assistant, cfg.QueryTimeout, pool == nil)
	http.SetupRoutes(app, handler, provider.Handler())

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}

// connectPostgres returns nil when the database is unreachable; the server
// then runs in demo mode on in-memory data.
func connectPostgres(ctx context.Context, cfg *Config, log zerolog.Logger) *pgxpool.Pool {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, running with demo data only")
		return nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pool.Ping(ctx)
		if err != nil {
			pool.Close()
		}
	}
	if err != nil {
		log.Warn().Err(err).Msg("could not connect to database, running with demo data only")
		return nil
	}
	log.Info().Msg("connected to PostgreSQL")
	return pool
}

// newAssistant wires the completion client and the optional answer cache.
// Without an API key the assistant stays disabled.
func newAssistant(ctx context.Context, cfg *Config, repo domain.FireRepository, m *metrics.Dashboard, log zerolog.Logger) (*service.Assistant, func()) {
	noop := func() {}
	if cfg.OpenAIAPIKey == "" {
		log.Info().Msg("OPENAI_API_KEY not set, assistant inactive")
		return service.NewAssistant(repo, nil), noop
	}

	opts := []service.AssistantOption{
		service.WithModelName(cfg.OpenAIModel),
		service.WithAssistantMetrics(m),
		service.WithAssistantLogger(log.With().Str("component", "assistant").Logger()),
	}
	closeCache := noop
	if cfg.RedisAddr != "" {
		rc, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, assistant answers not cached")
		} else {
			opts = append(opts, service.WithAnswerCache(rc, cfg.AssistantCacheTTL))
			closeCache = func() {
				if err := rc.Close(); err != nil {
					log.Warn().Err(err).Msg("redis close")
				}
			}
		}
	}
	completer := service.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	return service.NewAssistant(repo, completer, opts...), closeCache
}
