// cmd/sweeper runs the auto-confirmation policy spec §4.7 describes
// but the retrieved pack never scheduled: every SweepInterval it
// auto-confirms results still pending past ConfirmationWindow,
// guarded by a Redis leader lock so only one replica acts (see
// DESIGN.md's "Auto-confirmation trigger" decision).
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/padelhub/tournament-core/advancer"
	"github.com/padelhub/tournament-core/config"
	"github.com/padelhub/tournament-core/db"
	"github.com/padelhub/tournament-core/idempotency"
	"github.com/padelhub/tournament-core/notify"
	"github.com/padelhub/tournament-core/repositories"
	"github.com/padelhub/tournament-core/results"

	_ "github.com/lib/pq"
)

const leaderLockName = "result-confirmation-sweep"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	sqlDB, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	idempCache := idempotency.NewCache(redisClient)

	tournamentRepo := repositories.NewPostgresTournamentRepository(sqlDB)
	matchRepo := repositories.NewPostgresMatchRepository(sqlDB)
	entryRepo := repositories.NewPostgresEntryRepository(sqlDB)
	incidentRepo := repositories.NewPostgresIncidentRepository(sqlDB)
	idempRepo := repositories.NewPostgresIdempotencyRepository(sqlDB)
	adv := advancer.New(matchRepo)
	notifier := notify.NewProducer(notify.KafkaConfig{BootstrapServers: cfg.KafkaBrokers})
	defer notifier.Close()

	engine := results.NewEngine(sqlDB, tournamentRepo, matchRepo, entryRepo, incidentRepo, idempRepo, idempCache, adv, notifier, nil, logger)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	logger.Info("sweeper started", slog.Duration("interval", cfg.SweepInterval))

	for range ticker.C {
		runSweep(context.Background(), idempCache, tournamentRepo, engine, cfg.ConfirmationWindow, logger)
	}
}

func runSweep(ctx context.Context, idempCache *idempotency.Cache, tournamentRepo repositories.TournamentRepository, engine *results.Engine, window time.Duration, logger *slog.Logger) {
	acquired, err := idempCache.TryAcquireLeader(ctx, leaderLockName, 5*time.Minute)
	if err != nil {
		logger.Error("leader lock acquisition failed", slog.Any("error", err))
		return
	}
	if !acquired {
		logger.Debug("another replica holds the sweep lock; skipping this tick")
		return
	}
	defer func() {
		if err := idempCache.ReleaseLeader(ctx, leaderLockName); err != nil {
			logger.Warn("failed to release sweep leader lock", slog.Any("error", err))
		}
	}()

	tenantIDs, err := tournamentRepo.ListActiveTenantIDs(ctx)
	if err != nil {
		logger.Error("failed to list active tenants", slog.Any("error", err))
		return
	}

	now := time.Now().UTC()
	for _, tenantID := range tenantIDs {
		confirmed, err := engine.SweepExpiredConfirmations(ctx, tenantID, now, window)
		if err != nil {
			logger.Error("sweep failed for tenant", slog.String("tenant_id", tenantID.String()), slog.Any("error", err))
			continue
		}
		if confirmed > 0 {
			logger.Info("auto-confirmed expired results", slog.String("tenant_id", tenantID.String()), slog.Int("count", confirmed))
		}
	}
}
