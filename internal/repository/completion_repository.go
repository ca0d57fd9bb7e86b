package repository

import (
	"fmt"

	"github.com/disciplehub/disciplehub/internal/models"
)

// CompletionRepository handles daily habit completion database operations.
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new completion repository.
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// GetForDay retrieves the completion row for a (user, habit, day) triple,
// or nil when none exists. Finding more than one row is a consistency
// violation and fails loudly instead of picking one.
func (r *CompletionRepository) GetForDay(userID, habitID, day string) (*models.DailyHabitCompletion, error) {
	var rows []models.DailyHabitCompletion
	err := r.db.
		Where("user_id = ? AND habit_id = ? AND completed_date = ?", userID, habitID, day).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: %d completion rows for user=%s habit=%s day=%s",
			models.ErrConsistency, len(rows), userID, habitID, day)
	}
}

// ListForDay retrieves all completion rows for a user on a day.
func (r *CompletionRepository) ListForDay(userID, day string) ([]models.DailyHabitCompletion, error) {
	var rows []models.DailyHabitCompletion
	err := r.db.
		Where("user_id = ? AND completed_date = ?", userID, day).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return rows, nil
}

// Create inserts a completion row.
func (r *CompletionRepository) Create(completion *models.DailyHabitCompletion) error {
	if err := r.db.Create(completion).Error; err != nil {
		return fmt.Errorf("failed to create completion: %w", err)
	}
	return nil
}

// Delete removes the completion row for a (user, habit, day) triple.
func (r *CompletionRepository) Delete(userID, habitID, day string) error {
	err := r.db.
		Where("user_id = ? AND habit_id = ? AND completed_date = ?", userID, habitID, day).
		Delete(&models.DailyHabitCompletion{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}
	return nil
}

// CountForUser returns the total number of habit completions a user has
// recorded across all days.
func (r *CompletionRepository) CountForUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DailyHabitCompletion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}
