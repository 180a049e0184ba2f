package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/magazine-service/internal/api/http"
	"github.com/spec-kit/magazine-service/internal/api/http/handlers"
	"github.com/spec-kit/magazine-service/internal/auth"
	"github.com/spec-kit/magazine-service/internal/config"
	"github.com/spec-kit/magazine-service/internal/events"
	"github.com/spec-kit/magazine-service/internal/mail"
	"github.com/spec-kit/magazine-service/internal/observability"
	"github.com/spec-kit/magazine-service/internal/persistence"
	"github.com/spec-kit/magazine-service/internal/repository"
	"github.com/spec-kit/magazine-service/internal/service"
	"github.com/spec-kit/magazine-service/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	magazineRepo := repository.NewMagazineRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	refreshTokenRepo := repository.NewRefreshTokenRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	blacklistRepo := repository.NewBlacklistRepository(redis.Client)

	metrics := observability.NewMetrics()
	mailer := mail.NewSMTPMailer(cfg.Mail, logger)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		BlacklistRepo:    blacklistRepo,
		Mailer:           mailer,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	magazineService := service.NewMagazineService(magazineRepo, dispatcher)
	commentService := service.NewCommentService(commentRepo, magazineRepo, dispatcher)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, magazineRepo, dispatcher)
	userService := service.NewUserService(userRepo, dispatcher)

	activityService := service.NewActivityService(activityRepo, logger)
	activityService.RegisterHandlers(dispatcher)
	notificationService := service.NewNotificationService(subscriptionRepo, magazineRepo, userRepo, mailer, logger, cfg.App)
	notificationService.RegisterHandlers(dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), blacklistRepo)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, time.Duration(cfg.App.RequestTimeoutSeconds)*time.Second)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Magazines:      handlers.NewMagazinesHandler(magazineService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService),
		Admin:          handlers.NewAdminHandler(userService, activityService),
		AuthMiddleware: authMiddleware,
	})

	scheduler := worker.NewScheduler(cfg.Scheduler, logger, metrics)
	scheduler.Register(
		worker.NewExpirySweepJob(subscriptionRepo, magazineRepo, userRepo, activityService, mailer, logger),
		cfg.Scheduler.ExpirySweepAt,
	)
	scheduler.Register(
		worker.NewDailyReportJob(subscriptionRepo, commentRepo, userRepo, activityService, mailer, logger, cfg.Mail.AdminAddr),
		cfg.Scheduler.DailyReportAt,
	)
	scheduler.Register(
		worker.NewTokenCleanupJob(refreshTokenRepo, logger),
		cfg.Scheduler.TokenCleanupAt,
	)
	go scheduler.Start(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
