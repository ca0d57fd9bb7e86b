// Package achievements provides achievement evaluation and granting services.
package achievements

import (
	"context"
	"fmt"

	prommetrics "github.com/disciplehub/disciplehub/internal/metrics"
	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/internal/repository"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// AchievementRepository interface for achievement catalog and grant operations.
type AchievementRepository interface {
	GetAll() ([]models.AchievementDefinition, error)
	GetByID(id string) (*models.AchievementDefinition, error)
	CreateGrant(grant *models.AchievementGrant) error
	GetUserGrants(userID string) ([]models.AchievementGrant, error)
	GetGrantedIDs(userID string) (map[string]bool, error)
	GetHoldersCount(achievementID string) (int64, error)
}

// ProgressRepository interface for snapshot source aggregation.
type ProgressRepository interface {
	CountLessons(userID string) (int64, error)
	CountReadingDays(userID string) (int64, error)
	SumXP(userID string) (int64, error)
}

// CompletionRepository interface for habit completion counts.
type CompletionRepository interface {
	CountForUser(userID string) (int64, error)
}

// StreakRepository interface for streak reads.
type StreakRepository interface {
	GetByUser(userID string) (*models.StreakRecord, error)
}

// Service handles achievement evaluation and granting.
type Service struct {
	achievementRepo AchievementRepository
	progressRepo    ProgressRepository
	completionRepo  CompletionRepository
	streakRepo      StreakRepository
	log             *logger.Logger
}

// NewService creates a new achievement service.
func NewService(
	achievementRepo *repository.AchievementRepository,
	progressRepo *repository.ProgressRepository,
	completionRepo *repository.CompletionRepository,
	streakRepo *repository.StreakRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		achievementRepo: achievementRepo,
		progressRepo:    progressRepo,
		completionRepo:  completionRepo,
		streakRepo:      streakRepo,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new achievement service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	achievementRepo AchievementRepository,
	progressRepo ProgressRepository,
	completionRepo CompletionRepository,
	streakRepo StreakRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		achievementRepo: achievementRepo,
		progressRepo:    progressRepo,
		completionRepo:  completionRepo,
		streakRepo:      streakRepo,
		log:             log,
	}
}

// BuildSnapshot recomputes a user's progress metrics from source records.
// The streak value is caller-supplied so that evaluation after a streak
// advance sees the new value, not the stored one.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) BuildSnapshot(ctx context.Context, userID string, streak int) (models.ProgressSnapshot, error) {
	lessons, err := s.progressRepo.CountLessons(userID)
	if err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to count lessons: %w", err)
	}

	readingDays, err := s.progressRepo.CountReadingDays(userID)
	if err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to count reading days: %w", err)
	}

	habitsCompleted, err := s.completionRepo.CountForUser(userID)
	if err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to count habit completions: %w", err)
	}

	xp, err := s.progressRepo.SumXP(userID)
	if err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to sum xp: %w", err)
	}

	return models.ProgressSnapshot{
		Streak:           streak,
		LessonsCompleted: int(lessons),
		ReadingDays:      int(readingDays),
		HabitsCompleted:  int(habitsCompleted),
		XP:               int(xp),
	}, nil
}

// EvaluateAndGrant evaluates all achievements against a snapshot and
// persists every newly-qualifying grant. A persistence failure on one
// grant does not prevent attempting the others; the missed grant will
// simply qualify again on the next evaluation.
func (s *Service) EvaluateAndGrant(ctx context.Context, userID string, snapshot models.ProgressSnapshot) ([]models.AchievementGrant, error) {
	defs, err := s.achievementRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement definitions: %w", err)
	}

	granted, err := s.achievementRepo.GetGrantedIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get granted ids: %w", err)
	}

	candidates := Evaluate(userID, snapshot, defs, granted)

	var persisted []models.AchievementGrant
	for i := range candidates {
		grant := candidates[i]
		if err := s.achievementRepo.CreateGrant(&grant); err != nil {
			s.log.Error().
				Err(err).
				Str("user_id", userID).
				Str("achievement_id", grant.AchievementID).
				Msg("Failed to persist achievement grant")
			continue
		}

		persisted = append(persisted, grant)
		s.recordGrantMetrics(grant)

		s.log.Info().
			Str("user_id", userID).
			Str("achievement_id", grant.AchievementID).
			Int("streak_days", grant.StreakDays).
			Msg("Achievement granted")
	}

	return persisted, nil
}

// EvaluateUser rebuilds a user's snapshot from stored records and grants
// anything newly qualifying. Used by the nightly sweep, where no streak
// advance is in flight.
func (s *Service) EvaluateUser(ctx context.Context, userID string) ([]models.AchievementGrant, error) {
	streak, err := s.streakRepo.GetByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	snapshot, err := s.BuildSnapshot(ctx, userID, streak.CurrentStreak)
	if err != nil {
		return nil, err
	}

	return s.EvaluateAndGrant(ctx, userID, snapshot)
}

// GetUserAchievements retrieves all grants for a user resolved against the
// catalog. A grant referencing an id missing from the catalog is a
// consistency violation and fails loudly.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetUserAchievements(ctx context.Context, userID string) ([]GrantedAchievement, error) {
	grants, err := s.achievementRepo.GetUserGrants(userID)
	if err != nil {
		return nil, err
	}

	defs, err := s.achievementRepo.GetAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.AchievementDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}

	result := make([]GrantedAchievement, 0, len(grants))
	for _, grant := range grants {
		def, ok := byID[grant.AchievementID]
		if !ok {
			return nil, fmt.Errorf("%w: grant for unknown achievement %q (user %s)",
				models.ErrConsistency, grant.AchievementID, userID)
		}
		result = append(result, GrantedAchievement{Definition: def, Grant: grant})
	}

	return result, nil
}

// GetCatalog retrieves all achievement definitions.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetCatalog(ctx context.Context) ([]models.AchievementDefinition, error) {
	return s.achievementRepo.GetAll()
}

// GrantedAchievement pairs a grant with its catalog definition.
type GrantedAchievement struct {
	Definition models.AchievementDefinition `json:"definition"`
	Grant      models.AchievementGrant      `json:"grant"`
}

func (s *Service) recordGrantMetrics(grant models.AchievementGrant) {
	tier := ""
	if def, err := s.achievementRepo.GetByID(grant.AchievementID); err == nil && def != nil {
		tier = def.Tier
	}
	prommetrics.RecordAchievementGranted(grant.AchievementID, tier)

	count, _ := s.achievementRepo.GetHoldersCount(grant.AchievementID)
	prommetrics.SetAchievementHolders(grant.AchievementID, int(count))
}
