package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"modai/services/message-api/internal/config"
	"modai/services/message-api/internal/domain/conversation"
	"modai/services/message-api/internal/domain/message"
	"modai/services/message-api/internal/infrastructure/database"
	"modai/services/message-api/internal/infrastructure/database/repository/conversationrepo"
	"modai/services/message-api/internal/infrastructure/database/repository/messagerepo"
	"modai/services/message-api/internal/infrastructure/database/transaction"
	"modai/services/message-api/internal/infrastructure/logger"
	"modai/services/message-api/internal/infrastructure/observability"
	"modai/services/message-api/internal/infrastructure/queue"
	"modai/services/message-api/internal/infrastructure/usageclient"
	"modai/services/message-api/internal/interfaces/httpserver"
	"modai/services/message-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"modai/services/message-api/internal/interfaces/httpserver/handlers/messagehandler"
	v1 "modai/services/message-api/internal/interfaces/httpserver/routes/v1"
	conversationroute "modai/services/message-api/internal/interfaces/httpserver/routes/v1/conversation"
	messageroute "modai/services/message-api/internal/interfaces/httpserver/routes/v1/message"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.GetLogger()
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fallback := logger.GetLogger()
		fallback.Fatal().Err(err).Msg("failed to configure logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownObservability, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownObservability(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("observability shutdown incomplete")
		}
	}()

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		MaxIdle:     10,
		MaxOpen:     25,
		MaxLifetime: time.Hour,
		LogLevel:    gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.AutoMigrate {
		if err := database.Migration(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	redisClient, err := queue.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	txDB := transaction.NewDatabase(db)
	conversationRepo := conversationrepo.NewConversationGormRepository(txDB)
	messageRepo := messagerepo.NewMessageGormRepository(txDB)

	limitGuard := usageclient.NewClient(cfg.UserServiceURL, cfg.LimitCheckTimeout)
	classifierQueue := queue.NewClassifierQueue(redisClient, cfg.ClassificationQueue)
	usageQueue := queue.NewUsageQueue(redisClient, cfg.UsageQueue)

	conversationService := conversation.NewService(conversationRepo)
	messageService := message.NewService(messageRepo)
	ingestService := message.NewIngestService(
		conversationRepo,
		messageRepo,
		limitGuard,
		classifierQueue,
		usageQueue,
		cfg.LimitCheckTimeout,
		cfg.DispatchTimeout,
	)

	conversationHandler := conversationhandler.NewConversationHandler(conversationService, messageService)
	messageHandler := messagehandler.NewMessageHandler(ingestService, messageService)

	v1Route := v1.NewV1Route(
		conversationroute.NewConversationRoute(conversationHandler, messageHandler),
		messageroute.NewMessageRoute(messageHandler),
	)

	server := httpserver.NewHTTPServer(v1Route, cfg, log)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var eg errgroup.Group
	eg.Go(func() error {
		log.Info().Int("port", cfg.HTTPPort).Msg("starting HTTP server")
		return server.Run()
	})
	eg.Go(func() error {
		log.Info().Int("port", cfg.MetricsPort).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("HTTP server shutdown incomplete")
		}
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
