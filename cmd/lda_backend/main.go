package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/core/services"
	"github.com/lenddesk/loan_application_app/internal/handlers"
	"github.com/lenddesk/loan_application_app/internal/middleware"
	"github.com/lenddesk/loan_application_app/internal/platform/config"
	"github.com/lenddesk/loan_application_app/internal/platform/events"
	"github.com/lenddesk/loan_application_app/internal/platform/subjects"
	"github.com/lenddesk/loan_application_app/internal/repositories/database/pgsql"
	"github.com/lenddesk/loan_application_app/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Optional redis client backing idempotency and the rate limiter store.
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()
		logger.Info("Redis connection established.")
	} else {
		logger.Warn("REDIS_ADDR not set; idempotency middleware disabled.")
	}

	// Approval events go to SNS when a topic is configured, otherwise to the log.
	var publisher portssvc.ApprovalEventPublisher
	if cfg.SNSTopicARN != "" {
		snsPublisher, err := events.NewSNSPublisher(ctx, cfg.AWSRegion, cfg.SNSTopicARN)
		if err != nil {
			logger.Error("Failed to initialize SNS publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		publisher = snsPublisher
		logger.Info("SNS event publisher configured", slog.String("topic", cfg.SNSTopicARN))
	} else {
		publisher = events.NewLogPublisher(logger)
		logger.Warn("SNS_TOPIC_ARN not set; approval events are logged only.")
	}

	var directory portssvc.SubjectDirectorySvc
	if cfg.SubjectDirectoryURL != "" {
		directory = subjects.NewHTTPDirectory(cfg.SubjectDirectoryURL)
	} else {
		directory = subjects.AllowAllDirectory{}
		logger.Warn("SUBJECT_DIRECTORY_URL not set; subject existence checks are disabled.")
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, directory, publisher)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, metrics, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(buildRateLimiter(cfg, rdb, logger)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rdb)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildRateLimiter creates the global per-IP limiter. The counters live in
// redis when it is available so limits hold across instances.
func buildRateLimiter(cfg *config.Config, rdb *goredis.Client, logger *slog.Logger) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT format, falling back to 100-M", slog.String("error", err.Error()))
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}

	if rdb != nil {
		store, err := limiterredis.NewStore(rdb)
		if err == nil {
			return limiter.New(store, rate)
		}
		logger.Warn("Failed to create redis limiter store, using memory store", slog.String("error", err.Error()))
	}
	return limiter.New(memory.NewStore(), rate)
}
