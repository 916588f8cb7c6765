package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
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
	ticketRepo := repository.NewTicketRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	triageLogRepo := repository.NewTriageLogRepository(pool)
	txManager := repository.NewTxManager(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		TokenManager: tokenManager,
		Config:       cfg.Auth,
	})
	userService := service.NewUserService(userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		TxManager:  txManager,
		Dispatcher: dispatcher,
	})
	ratingService := service.NewRatingService(service.RatingDependencies{
		TicketRepo: ticketRepo,
		RatingRepo: ratingRepo,
		TxManager:  txManager,
		Dispatcher: dispatcher,
	})
	triageService := service.NewTriageService(service.TriageDependencies{
		UserRepo:   userRepo,
		LogRepo:    triageLogRepo,
		Dispatcher: dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
	})
	fileService, err := service.NewFileService(service.FileDependencies{
		AttachmentRepo: attachmentRepo,
		TicketRepo:     ticketRepo,
		Storage:        cfg.Storage,
	})
	if err != nil {
		logger.Fatal("failed to init file storage", zap.Error(err))
	}
	statsService := service.NewStatsService(service.StatsDependencies{
		TicketRepo: ticketRepo,
		RatingRepo: ratingRepo,
		Cache:      redis.Client,
		CacheTTL:   cfg.Stats.CacheTTL(),
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	seedAdmin(ctx, cfg.Auth, authService, logger)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Tickets:        handlers.NewTicketsHandler(ticketService, ratingService, triageService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Files:          handlers.NewFilesHandler(fileService),
		Triage:         handlers.NewTriageHandler(triageService),
		Admin:          handlers.NewAdminHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func seedAdmin(ctx context.Context, cfg config.AuthConfig, authService *service.AuthService, logger *zap.Logger) {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return
	}
	_, err := authService.CreateUser(ctx, cfg.SeedAdminEmail, "Administrator", cfg.SeedAdminPassword, domain.RoleAdmin)
	if err != nil {
		if apperrors.IsCode(err, "CONFLICT") {
			return
		}
		logger.Warn("admin seed failed", zap.Error(err))
		return
	}
	logger.Info("seeded admin account", zap.String("email", cfg.SeedAdminEmail))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
