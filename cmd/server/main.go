package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-core/config"
	"github.com/d60-Lab/social-core/internal/api/handler"
	"github.com/d60-Lab/social-core/internal/api/router"
	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
	"github.com/d60-Lab/social-core/internal/service"
	"github.com/d60-Lab/social-core/pkg/database"
	"github.com/d60-Lab/social-core/pkg/logger"
	"github.com/d60-Lab/social-core/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Warn("tracing init failed", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		return
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	mentionRepo := repository.NewMentionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// services
	broadcaster := service.NewRedisBroadcaster(rdb)
	counters := service.NewCounterBridge(notificationRepo, reportRepo, broadcaster, 10000)
	stopCounters := counters.Start(2)
	defer func() { _ = stopCounters(context.Background()) }()

	notificationSvc := service.NewNotificationService(notificationRepo, commentRepo, followRepo, blockRepo, counters)
	mentionSvc := service.NewMentionService(userRepo, blockRepo, mentionRepo)
	relationSvc := service.NewRelationshipService(db, userRepo, followRepo, blockRepo, notificationSvc)
	reactionSvc := service.NewReactionService(reactionRepo)
	contentSvc := service.NewContentService(db, postRepo, commentRepo, userRepo, blockRepo, mentionSvc, notificationSvc)
	reportSvc := service.NewReportService(reportRepo, contentSvc, counters)
	userSvc := service.NewUserService(userRepo)

	h := handler.New(userSvc, relationSvc, reactionSvc, notificationSvc, reportSvc, contentSvc)
	r := router.Setup(cfg, h)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
