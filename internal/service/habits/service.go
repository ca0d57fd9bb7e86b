// Package habits provides the habit catalog reader, the toggle
// coordinator, and the streak calculator.
package habits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/disciplehub/disciplehub/internal/cache"
	prommetrics "github.com/disciplehub/disciplehub/internal/metrics"
	"github.com/disciplehub/disciplehub/internal/models"
	"github.com/disciplehub/disciplehub/internal/repository"
	"github.com/disciplehub/disciplehub/pkg/logger"
)

// HabitRepository interface for habit catalog operations.
type HabitRepository interface {
	GetActive() ([]models.HabitDefinition, error)
}

// CompletionRepository interface for daily completion operations.
type CompletionRepository interface {
	GetForDay(userID, habitID, day string) (*models.DailyHabitCompletion, error)
	ListForDay(userID, day string) ([]models.DailyHabitCompletion, error)
	Create(completion *models.DailyHabitCompletion) error
	Delete(userID, habitID, day string) error
}

// StreakRepository interface for streak record operations.
type StreakRepository interface {
	GetByUser(userID string) (*models.StreakRecord, error)
	Upsert(record *models.StreakRecord) error
}

// AchievementEvaluator is the downstream evaluator invoked after a day
// becomes fully complete.
type AchievementEvaluator interface {
	BuildSnapshot(ctx context.Context, userID string, streak int) (models.ProgressSnapshot, error)
	EvaluateAndGrant(ctx context.Context, userID string, snapshot models.ProgressSnapshot) ([]models.AchievementGrant, error)
}

// ToggleResult is the fully-resolved outcome of a toggle: the refreshed
// habit list plus whatever derived effects the toggle produced.
type ToggleResult struct {
	Habits          []models.HabitStatus      `json:"habits"`
	DayComplete     bool                      `json:"day_complete"`
	Streak          *models.StreakRecord      `json:"streak,omitempty"`
	NewAchievements []models.AchievementGrant `json:"new_achievements,omitempty"`
}

const catalogCacheKey = "catalog:habits:active"

// Service coordinates habit reads, toggles, and streak updates.
type Service struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	streakRepo     StreakRepository
	evaluator      AchievementEvaluator
	cache          cache.Cache
	cacheTTL       time.Duration
	log            *logger.Logger
}

// NewService creates a new habit service.
func NewService(
	habitRepo *repository.HabitRepository,
	completionRepo *repository.CompletionRepository,
	streakRepo *repository.StreakRepository,
	evaluator AchievementEvaluator,
	catalogCache cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		evaluator:      evaluator,
		cache:          catalogCache,
		cacheTTL:       cacheTTL,
		log:            log,
	}
}

// NewServiceWithInterfaces creates a new habit service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	habitRepo HabitRepository,
	completionRepo CompletionRepository,
	streakRepo StreakRepository,
	evaluator AchievementEvaluator,
	catalogCache cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		streakRepo:     streakRepo,
		evaluator:      evaluator,
		cache:          catalogCache,
		cacheTTL:       cacheTTL,
		log:            log,
	}
}

// ListHabitsForDay returns the ordered active habit catalog annotated with
// each habit's completion state for the given user and day. Absence of
// data yields an empty list, not a failure.
func (s *Service) ListHabitsForDay(ctx context.Context, userID, day string) ([]models.HabitStatus, error) {
	day, err := models.ParseDay(day)
	if err != nil {
		return nil, err
	}

	defs, err := s.activeHabits(ctx)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListForDay(userID, day)
	if err != nil {
		return nil, err
	}

	return annotate(defs, completions), nil
}

// ToggleHabit marks or unmarks a single habit as done for the given day.
//
// Creating the day's last missing completion advances the streak and
// evaluates achievements against a fresh progress snapshot. Deleting a
// completion is a pure undo: the streak record is never retroactively
// adjusted; breakage is only detected the next time the streak advances
// and finds a gap.
func (s *Service) ToggleHabit(ctx context.Context, userID, habitID, day string) (*ToggleResult, error) {
	day, err := models.ParseDay(day)
	if err != nil {
		return nil, err
	}

	defs, err := s.activeHabits(ctx)
	if err != nil {
		return nil, err
	}
	if !containsHabit(defs, habitID) {
		return nil, fmt.Errorf("habit %q: %w", habitID, models.ErrHabitNotFound)
	}

	existing, err := s.completionRepo.GetForDay(userID, habitID, day)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return s.undoCompletion(ctx, userID, habitID, day, defs)
	}
	return s.applyCompletion(ctx, userID, habitID, day, defs)
}

// GetStreak retrieves a user's streak record, zero-valued when the user
// has never completed a full day.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetStreak(ctx context.Context, userID string) (*models.StreakRecord, error) {
	return s.streakRepo.GetByUser(userID)
}

func (s *Service) undoCompletion(ctx context.Context, userID, habitID, day string, defs []models.HabitDefinition) (*ToggleResult, error) {
	if err := s.completionRepo.Delete(userID, habitID, day); err != nil {
		return nil, err
	}
	prommetrics.RecordHabitToggle(habitID, "uncompleted")

	s.log.Debug().
		Str("user_id", userID).
		Str("habit_id", habitID).
		Str("day", day).
		Msg("Habit completion undone")

	completions, err := s.completionRepo.ListForDay(userID, day)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{Habits: annotate(defs, completions)}, nil
}

func (s *Service) applyCompletion(ctx context.Context, userID, habitID, day string, defs []models.HabitDefinition) (*ToggleResult, error) {
	completion := &models.DailyHabitCompletion{
		UserID:        userID,
		HabitID:       habitID,
		CompletedDate: day,
	}
	if err := s.completionRepo.Create(completion); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// A concurrent toggle or a retried request got there first; the
		// habit is already in the desired state and nothing was applied.
	} else {
		prommetrics.RecordHabitToggle(habitID, "completed")
	}

	// Re-read the day's completion set before deciding whether the day is
	// fully complete. Two concurrent toggles for different habits must not
	// decide from a snapshot taken before either applied.
	completions, err := s.completionRepo.ListForDay(userID, day)
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{Habits: annotate(defs, completions)}

	if !allComplete(defs, completions) {
		return result, nil
	}
	result.DayComplete = true

	streak, err := s.advanceStreak(userID, day)
	if err != nil {
		return nil, err
	}
	result.Streak = streak

	snapshot, err := s.evaluator.BuildSnapshot(ctx, userID, streak.CurrentStreak)
	if err != nil {
		return nil, err
	}

	grants, err := s.evaluator.EvaluateAndGrant(ctx, userID, snapshot)
	if err != nil {
		return nil, err
	}
	result.NewAchievements = grants

	return result, nil
}

// advanceStreak applies the streak rule for a newly fully-complete day
// and persists the result, creating the record on first completion.
func (s *Service) advanceStreak(userID, day string) (*models.StreakRecord, error) {
	record, err := s.streakRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	next, changed, err := advance(*record, day)
	if err != nil {
		return nil, err
	}
	if !changed {
		return record, nil
	}

	if err := s.streakRepo.Upsert(&next); err != nil {
		return nil, err
	}

	prommetrics.RecordDayCompleted()
	prommetrics.ObserveStreakLength(next.CurrentStreak)

	s.log.Info().
		Str("user_id", userID).
		Str("day", day).
		Int("current_streak", next.CurrentStreak).
		Int("best_streak", next.BestStreak).
		Msg("Streak advanced")

	return &next, nil
}

// activeHabits serves the active catalog through the cache, falling back
// to the database when the cache misses or misbehaves. Cache trouble is
// logged, never surfaced.
func (s *Service) activeHabits(ctx context.Context) ([]models.HabitDefinition, error) {
	if s.cache != nil {
		if defs, ok := s.cachedHabits(ctx); ok {
			return defs, nil
		}
	}

	defs, err := s.habitRepo.GetActive()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.storeCachedHabits(ctx, defs)
	}
	return defs, nil
}

func containsHabit(defs []models.HabitDefinition, habitID string) bool {
	for _, def := range defs {
		if def.ID == habitID {
			return true
		}
	}
	return false
}

// annotate pairs the active catalog with a day's completion rows.
func annotate(defs []models.HabitDefinition, completions []models.DailyHabitCompletion) []models.HabitStatus {
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[c.HabitID] = true
	}

	statuses := make([]models.HabitStatus, 0, len(defs))
	for _, def := range defs {
		statuses = append(statuses, models.HabitStatus{
			HabitDefinition: def,
			Completed:       done[def.ID],
		})
	}
	return statuses
}

// allComplete reports whether every habit in the current active catalog
// has a completion row. The catalog as it exists now is authoritative;
// past days are never re-evaluated against a changed habit set.
func allComplete(defs []models.HabitDefinition, completions []models.DailyHabitCompletion) bool {
	if len(defs) == 0 {
		return false
	}
	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		done[c.HabitID] = true
	}
	for _, def := range defs {
		if !done[def.ID] {
			return false
		}
	}
	return true
}
