// File: cmd/auth-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emilyastranova/forkmost/internal/config"
	"github.com/emilyastranova/forkmost/internal/events/kafka"
	httpHandler "github.com/emilyastranova/forkmost/internal/handler/http"
	infraDatabase "github.com/emilyastranova/forkmost/internal/infrastructure/database"
	infraPostgres "github.com/emilyastranova/forkmost/internal/infrastructure/database/postgres"
	"github.com/emilyastranova/forkmost/internal/infrastructure/security"
	"github.com/emilyastranova/forkmost/internal/service"
	"github.com/emilyastranova/forkmost/internal/utils/logger"
	"github.com/emilyastranova/forkmost/internal/utils/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.Database.AutoMigrate {
		log.Info("Running database migrations")
		migrationURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)
		m, err := migrate.New(cfg.Database.MigrationsPath, migrationURL)
		if err != nil {
			log.Fatal("Failed to create migration instance", zap.Error(err))
		}
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		log.Info("Migrations applied successfully")
	}

	ctx := context.Background()

	dbPool, err := infraPostgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize PostgreSQL connection pool", zap.Error(err))
	}
	defer dbPool.Close()

	userRepo := infraDatabase.NewPgxUserRepository(dbPool)
	mfaRepo := infraDatabase.NewPgxUserMFARepository(dbPool)
	workspaceRepo := infraDatabase.NewPgxWorkspaceRepository(dbPool)

	var redisClient *redis.Client
	if cfg.Security.RateLimiting.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis is unreachable, rate limiting will fail open", zap.Error(err))
		}
		defer redisClient.Close()
	}
	limiter := rate.NewLimiter(redisClient, log, &cfg.Security.RateLimiting)

	var kafkaProducer *kafka.Producer
	if cfg.Kafka.Enabled {
		kafkaProducer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kafkaProducer.Close()
	}

	passwordService, err := security.NewArgon2idPasswordService(security.Argon2idParams{
		Memory:      cfg.Security.PasswordHash.Memory,
		Iterations:  cfg.Security.PasswordHash.Iterations,
		Parallelism: cfg.Security.PasswordHash.Parallelism,
		SaltLength:  cfg.Security.PasswordHash.SaltLength,
		KeyLength:   cfg.Security.PasswordHash.KeyLength,
	})
	if err != nil {
		log.Fatal("Failed to initialize password service", zap.Error(err))
	}

	tokenService, err := security.NewJWTTokenService(cfg.Auth.JWTSecret, cfg.Auth.CookieTTL, cfg.Auth.Issuer)
	if err != nil {
		log.Fatal("Failed to initialize token service", zap.Error(err))
	}

	totpService := security.NewPquernaTOTPService(cfg.MFA.TOTPIssuerName)

	authService, err := service.NewAuthService(
		userRepo,
		mfaRepo,
		passwordService,
		totpService,
		tokenService,
		kafkaProducer,
		limiter,
		cfg.Security.RateLimiting,
		log,
	)
	if err != nil {
		log.Fatal("Failed to initialize auth service", zap.Error(err))
	}

	mfaService := service.NewMFAService(mfaRepo, totpService, kafkaProducer, log)

	authHandler := httpHandler.NewAuthHandler(authService, log, cfg.Auth.CookieTTL, cfg.Server.SecureCookies)
	mfaHandler := httpHandler.NewMFAHandler(authService, mfaService, userRepo, log)

	router := httpHandler.NewRouter(httpHandler.RouterConfig{
		AuthHandler:    authHandler,
		MFAHandler:     mfaHandler,
		TokenService:   tokenService,
		WorkspaceRepo:  workspaceRepo,
		Logger:         log,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Starting HTTP server", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
