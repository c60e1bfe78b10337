package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tomfenwick/studytrack/internal/config"
	apphttp "github.com/tomfenwick/studytrack/internal/http"
	"github.com/tomfenwick/studytrack/internal/http/handlers"
	"github.com/tomfenwick/studytrack/internal/http/middleware"
	"github.com/tomfenwick/studytrack/internal/infra/postgres"
	"github.com/tomfenwick/studytrack/internal/infra/postgres/repository"
	"github.com/tomfenwick/studytrack/internal/logger"
	"github.com/tomfenwick/studytrack/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zlog.Fatal("database not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	quizRepo := repository.NewQuizResultRepository(pool)
	flashcardRepo := repository.NewFlashcardRepository(pool)
	transactor := postgres.NewTransactor(pool)

	// Services.
	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	achievementSvc := service.NewAchievementService(userRepo, transactor)
	progressSvc := service.NewProgressService(userRepo, sessionRepo, quizRepo, flashcardRepo, achievementSvc, transactor)
	flashcardSvc := service.NewFlashcardService(flashcardRepo, achievementSvc, transactor)
	authSvc := service.NewAuthService(userRepo, achievementSvc, tokens)
	userSvc := service.NewUserService(userRepo, achievementSvc, transactor)
	maintenanceSvc := service.NewMaintenanceService(progressSvc, userRepo, zlog)

	server := apphttp.NewServer(cfg.Server, apphttp.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(authSvc),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens),
		UserHandler:    handlers.NewUserHandler(userSvc),

		ProgressHandler:    handlers.NewProgressHandler(progressSvc),
		SessionHandler:     handlers.NewSessionHandler(progressSvc),
		FlashcardHandler:   handlers.NewFlashcardHandler(flashcardSvc),
		AchievementHandler: handlers.NewAchievementHandler(achievementSvc),

		HealthHandler: handlers.NewHealthHandler(),

		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         zlog,
	})

	go maintenanceSvc.Start(ctx)

	go func() {
		zlog.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := server.Run(); err != nil {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
