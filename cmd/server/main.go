package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"github.com/padelhub/tournament-core/advancer"
	"github.com/padelhub/tournament-core/audit"
	"github.com/padelhub/tournament-core/auth"
	"github.com/padelhub/tournament-core/config"
	"github.com/padelhub/tournament-core/db"
	"github.com/padelhub/tournament-core/fixture"
	"github.com/padelhub/tournament-core/httpapi"
	"github.com/padelhub/tournament-core/idempotency"
	"github.com/padelhub/tournament-core/incidents"
	"github.com/padelhub/tournament-core/models"
	"github.com/padelhub/tournament-core/notify"
	"github.com/padelhub/tournament-core/repositories"
	"github.com/padelhub/tournament-core/results"
	"github.com/padelhub/tournament-core/storage"

	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	sqlDB, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	idempCache := idempotency.NewCache(redisClient)

	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer mongoCancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("failed to connect to mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect mongo client", slog.Any("error", err))
		}
	}()
	auditSink := audit.NewSink(mongoClient.Database(cfg.MongoDB))

	notifier := notify.NewProducer(notify.KafkaConfig{BootstrapServers: cfg.KafkaBrokers})
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Error("failed to close kafka producer", slog.Any("error", err))
		}
	}()
	hub := notify.NewHub()
	go hub.Run()

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}

	tournamentRepo := repositories.NewPostgresTournamentRepository(sqlDB)
	entryRepo := repositories.NewPostgresEntryRepository(sqlDB)
	matchRepo := repositories.NewPostgresMatchRepository(sqlDB)
	incidentRepo := repositories.NewPostgresIncidentRepository(sqlDB)
	idempRepo := repositories.NewPostgresIdempotencyRepository(sqlDB)

	adv := advancer.New(matchRepo)

	fixtureOrchestrator := fixture.NewOrchestrator(sqlDB, tournamentRepo, entryRepo, matchRepo, logger)
	resultsEngine := results.NewEngine(sqlDB, tournamentRepo, matchRepo, entryRepo, incidentRepo, idempRepo, idempCache, adv, notifier, hub, logger)
	incidentsEngine := incidents.NewEngine(sqlDB, incidentRepo, matchRepo, entryRepo, adv, notifier, hub, auditSink, logger)

	operatorStore, err := auth.NewOperatorStore(
		cfg.OperatorEmail, cfg.OperatorPassword,
		uuid.MustParse(cfg.OperatorTenantID), uuid.MustParse(cfg.OperatorProfileID), uuid.MustParse(cfg.OperatorTenantUserID),
		models.RoleAdmin, cfg.JWTSecret,
	)
	if err != nil {
		logger.Error("failed to initialize operator credential", slog.Any("error", err))
		os.Exit(1)
	}

	handlers := httpapi.NewHandlers(fixtureOrchestrator, resultsEngine, incidentsEngine, uploader, operatorStore, logger)
	router := httpapi.NewRouter(handlers, hub, cfg.JWTSecret, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("server exited")
}
