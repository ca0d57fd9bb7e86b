// Package reports provides read-only reporting projections: streak
// leaderboards and per-user summaries. Plain summation, no invariants.
package reports

import (
	"context"
	"fmt"

	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/internal/repository"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// StreakRepository interface for streak reads.
type StreakRepository interface {
	GetByUser(userID string) (*models.StreakRecord, error)
	TopCurrent(limit int) ([]models.StreakRecord, error)
	TopBest(limit int) ([]models.StreakRecord, error)
}

// AchievementRepository interface for grant counts.
type AchievementRepository interface {
	CountGrants(userID string) (int64, error)
}

// CompletionRepository interface for completion counts.
type CompletionRepository interface {
	CountForUser(userID string) (int64, error)
}

// ProgressRepository interface for progress totals.
type ProgressRepository interface {
	CountLessons(userID string) (int64, error)
	CountReadingDays(userID string) (int64, error)
	SumXP(userID string) (int64, error)
}

// Entry is a single leaderboard row.
type Entry struct {
	UserID           string `json:"user_id"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	AchievementCount int    `json:"achievement_count"`
	Rank             int    `json:"rank"`
}

// UserSummary aggregates one user's engine totals.
type UserSummary struct {
	UserID           string `json:"user_id"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	HabitsCompleted  int64  `json:"habits_completed"`
	LessonsCompleted int64  `json:"lessons_completed"`
	ReadingDays      int64  `json:"reading_days"`
	XP               int64  `json:"xp"`
	AchievementCount int64  `json:"achievement_count"`
}

// Service builds reporting projections.
type Service struct {
	streakRepo      StreakRepository
	achievementRepo AchievementRepository
	completionRepo  CompletionRepository
	progressRepo    ProgressRepository
	log             *logger.Logger
}

// NewService creates a new reports service.
func NewService(
	streakRepo *repository.StreakRepository,
	achievementRepo *repository.AchievementRepository,
	completionRepo *repository.CompletionRepository,
	progressRepo *repository.ProgressRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		streakRepo:      streakRepo,
		achievementRepo: achievementRepo,
		completionRepo:  completionRepo,
		progressRepo:    progressRepo,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new reports service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	streakRepo StreakRepository,
	achievementRepo AchievementRepository,
	completionRepo CompletionRepository,
	progressRepo ProgressRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		streakRepo:      streakRepo,
		achievementRepo: achievementRepo,
		completionRepo:  completionRepo,
		progressRepo:    progressRepo,
		log:             log,
	}
}

// GetStreakLeaderboard returns the top streaks, ranked. The metric is
// either "current" or "best".
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetStreakLeaderboard(ctx context.Context, metric string, limit int) ([]Entry, error) {
	var (
		records []models.StreakRecord
		err     error
	)
	switch metric {
	case "current", "":
		records, err = s.streakRepo.TopCurrent(limit)
	case "best":
		records, err = s.streakRepo.TopBest(limit)
	default:
		return nil, fmt.Errorf("unsupported leaderboard metric: %s", metric)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for i, record := range records {
		count, err := s.achievementRepo.CountGrants(record.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", record.UserID).Msg("Failed to count achievements")
		}
		entries = append(entries, Entry{
			UserID:           record.UserID,
			CurrentStreak:    record.CurrentStreak,
			BestStreak:       record.BestStreak,
			AchievementCount: int(count),
			Rank:             i + 1,
		})
	}
	return entries, nil
}

// GetUserSummary returns the engine totals for one user.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetUserSummary(ctx context.Context, userID string) (*UserSummary, error) {
	streak, err := s.streakRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	habits, err := s.completionRepo.CountForUser(userID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.progressRepo.CountLessons(userID)
	if err != nil {
		return nil, err
	}

	readingDays, err := s.progressRepo.CountReadingDays(userID)
	if err != nil {
		return nil, err
	}

	xp, err := s.progressRepo.SumXP(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := s.achievementRepo.CountGrants(userID)
	if err != nil {
		return nil, err
	}

	return &UserSummary{
		UserID:           userID,
		CurrentStreak:    streak.CurrentStreak,
		BestStreak:       streak.BestStreak,
		HabitsCompleted:  habits,
		LessonsCompleted: lessons,
		ReadingDays:      readingDays,
		XP:               xp,
		AchievementCount: achievements,
	}, nil
}
