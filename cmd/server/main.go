// Command server runs the discipleship habit tracker service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disciplehub/disciplehub/internal/api"
	"github.com/disciplehub/disciplehub/internal/api/tracker"
	"github.com/disciplehub/disciplehub/internal/cache"
	"github.com/disciplehub/disciplehub/internal/catalog"
	"github.com/disciplehub/disciplehub/internal/config"
	"github.com/disciplehub/disciplehub/internal/repository"
	"github.com/disciplehub/disciplehub/internal/service/achievements"
	"github.com/disciplehub/disciplehub/internal/service/habits"
	"github.com/disciplehub/disciplehub/internal/service/reports"
	"github.com/disciplehub/disciplehub/internal/service/scheduler"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	if err := repository.RunMigrations(&cfg.Database.Postgres, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Repositories
	habitRepo := repository.NewHabitRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Catalog seeding
	if cfg.Catalog.SeedFile != "" {
		seed, err := catalog.Load(cfg.Catalog.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load catalog seed")
		}
		if err := catalog.Seed(seed, habitRepo, achievementRepo, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed catalog")
		}
	}

	// Services
	achievementService := achievements.NewService(achievementRepo, progressRepo, completionRepo, streakRepo, log)
	habitService := habits.NewService(
		habitRepo, completionRepo, streakRepo,
		achievementService, redisCache, cfg.Catalog.CatalogCacheTTL(), log,
	)
	habitService.InvalidateCatalogCache(context.Background())
	reportService := reports.NewService(streakRepo, achievementRepo, completionRepo, progressRepo, log)

	// Scheduler
	sched := scheduler.NewService(cfg, achievementService, streakRepo, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

	// HTTP server
	handler := tracker.NewHandler(habitService, achievementService, reportService, log)
	router := api.NewRouter(cfg, handler, db)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}
