package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/delivery-service/internal/api/http"
	"github.com/spec-kit/delivery-service/internal/api/http/handlers"
	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/config"
	"github.com/spec-kit/delivery-service/internal/events"
	"github.com/spec-kit/delivery-service/internal/mailer"
	"github.com/spec-kit/delivery-service/internal/observability"
	"github.com/spec-kit/delivery-service/internal/persistence"
	"github.com/spec-kit/delivery-service/internal/repository"
	"github.com/spec-kit/delivery-service/internal/service"
	"github.com/spec-kit/delivery-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Mail.DevMode && cfg.App.Env == "production" {
		logger.Warn("MAIL_DEV_MODE is enabled in production; reset tokens will be returned in API responses")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	userRepo := repository.NewUserRepository(mongo.Database)
	dispatcher := events.NewInMemoryDispatcher()
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	var mail mailer.Mailer
	if cfg.Mail.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.Mail, logger)
	} else {
		mail = mailer.NewDisabledMailer(logger)
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		TokenMgr:   tokenMgr,
	})
	adminService := service.NewAdminService(cfg.Auth, cfg.Admin, service.AdminDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		TokenMgr:   tokenMgr,
	})
	notificationService := service.NewNotificationService(dispatcher, mail, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(tokenMgr, userRepo)

	var limiterStorage fiber.Storage
	if storage := persistence.NewRedisStorage(redis); storage != nil {
		limiterStorage = storage
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Mail),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
		RateLimiters:   httptransport.NewRateLimiters(cfg.RateLimit, limiterStorage),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
