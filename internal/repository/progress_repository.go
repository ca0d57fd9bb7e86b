package repository

import (
	"fmt"

	"github.com/disciplehub/disciplehub/internal/models"
)

// ProgressRepository aggregates the source records behind progress
// snapshots: lesson completions, reading days, and XP events.
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// CountLessons returns how many lessons a user has completed.
func (r *ProgressRepository) CountLessons(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.LessonCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

// CountReadingDays returns how many reading-plan days a user has completed.
func (r *ProgressRepository) CountReadingDays(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ReadingCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count reading days: %w", err)
	}
	return count, nil
}

// SumXP returns a user's total experience points.
func (r *ProgressRepository) SumXP(userID string) (int64, error) {
	var total *int64
	err := r.db.Model(&models.XPEvent{}).
		Where("user_id = ?", userID).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum xp: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
