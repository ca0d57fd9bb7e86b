// Package scheduler provides the nightly achievement sweep job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/disciplehub/disciplehub/internal/config"
	prommetrics "github.com/disciplehub/disciplehub/internal/metrics"
	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// AchievementService interface for sweep evaluation.
type AchievementService interface {
	EvaluateUser(ctx context.Context, userID string) ([]models.AchievementGrant, error)
}

// UserLister enumerates the users known to the engine.
type UserLister interface {
	ListUserIDs() ([]string, error)
}

// Service runs the scheduled achievement sweep. The sweep is a safety
// net: grants missed by a partial failure during a toggle qualify again
// here, and the grant gate makes re-running it harmless.
type Service struct {
	config             *config.Config
	achievementService AchievementService
	users              UserLister
	log                *logger.Logger
	cron               *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.Config,
	achievementService AchievementService,
	users UserLister,
	log *logger.Logger,
) *Service {
	return &Service{
		config:             cfg,
		achievementService: achievementService,
		users:              users,
		log:                log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.Scheduler.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.config.Scheduler.SweepTime, func() {
		s.RunSweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register achievement sweep job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", s.config.Scheduler.SweepTime).
		Str("timezone", s.config.Scheduler.Timezone).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// RunSweep evaluates achievements for every known user. Failures for one
// user never stop the sweep; they will be retried on the next run.
func (s *Service) RunSweep(ctx context.Context) {
	start := time.Now()
	defer func() {
		prommetrics.ObserveSweepDuration(time.Since(start).Seconds())
	}()

	s.log.Info().Msg("Running achievement sweep")

	userIDs, err := s.users.ListUserIDs()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list users for sweep")
		prommetrics.RecordSweepRun("error")
		return
	}

	grantsTotal := 0
	failures := 0
	for _, userID := range userIDs {
		grants, err := s.achievementService.EvaluateUser(ctx, userID)
		if err != nil {
			s.log.Error().
				Err(err).
				Str("user_id", userID).
				Msg("Failed to evaluate user during sweep")
			failures++
			continue
		}
		grantsTotal += len(grants)
	}

	status := "success"
	if failures > 0 {
		status = "partial"
	}
	prommetrics.RecordSweepRun(status)

	s.log.Info().
		Int("users_evaluated", len(userIDs)).
		Int("grants", grantsTotal).
		Int("failures", failures).
		Dur("duration", time.Since(start)).
		Msg("Achievement sweep complete")
}
