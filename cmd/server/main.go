package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vportnov/handball-stats-service/internal/config"
	"github.com/vportnov/handball-stats-service/internal/handler"
	"github.com/vportnov/handball-stats-service/internal/live"
	"github.com/vportnov/handball-stats-service/internal/logger"
	"github.com/vportnov/handball-stats-service/internal/repository"
	"github.com/vportnov/handball-stats-service/internal/repository/postgres"
	"github.com/vportnov/handball-stats-service/internal/service"
	"github.com/vportnov/handball-stats-service/migrations"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}

	ctx := context.Background()

	repo, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer repo.Close()

	if err := migrations.Up(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("migrations failed")
	}

	redisClient, err := live.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = redisClient.Close() }()

	cache := live.NewSnapshotCache(redisClient, time.Duration(cfg.Redis.SnapshotTTL)*time.Second, appLogger)
	hub := live.NewHub(appLogger)
	go hub.Run()

	pool := repo.Pool()
	teams := postgres.NewTeamRepository(pool)
	players := postgres.NewPlayerRepository(pool)
	matches := postgres.NewMatchRepository(pool)
	events := postgres.NewEventRepository(pool)
	stats := postgres.NewStatRepository(pool)
	tx := postgres.NewTxManager(pool)

	teamSvc := service.NewTeamService(teams, appLogger)
	playerSvc := service.NewPlayerService(players, teams, appLogger)
	matchSvc := service.NewMatchService(matches, teams, tx, cache, hub, cfg.Match.DefaultDurationSeconds, appLogger)
	eventSvc := service.NewEventService(events, stats, matches, players, tx, cache, hub, appLogger)
	statsSvc := service.NewStatsService(stats, events, matches, players, tx, appLogger)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine, postgres.NewPinger(pool), teamSvc, playerSvc, matchSvc, eventSvc, statsSvc, hub)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		appLogger.Info().Int("port", cfg.Server.Port).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
