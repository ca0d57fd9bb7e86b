package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/disciplehub/disciplehub/internal/models"
)

// StreakRepository handles streak record database operations.
type StreakRepository struct {
	db *DB
}

// NewStreakRepository creates a new streak repository.
func NewStreakRepository(db *DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// GetByUser retrieves a user's streak record, or a zero-value record when
// the user has never completed a full day.
func (r *StreakRepository) GetByUser(userID string) (*models.StreakRecord, error) {
	var record models.StreakRecord
	err := r.db.First(&record, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StreakRecord{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak for user %s: %w", userID, err)
	}
	return &record, nil
}

// Upsert creates or replaces a user's streak record.
func (r *StreakRepository) Upsert(record *models.StreakRecord) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"current_streak", "best_streak", "last_completed_date", "updated_at"},
		),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert streak for user %s: %w", record.UserID, err)
	}
	return nil
}

// ListUserIDs returns the ids of all users with a streak record. Used by
// the nightly achievement sweep and reporting.
func (r *StreakRepository) ListUserIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.StreakRecord{}).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list streak user ids: %w", err)
	}
	return ids, nil
}

// TopCurrent returns the streak records with the highest current streaks.
func (r *StreakRepository) TopCurrent(limit int) ([]models.StreakRecord, error) {
	var records []models.StreakRecord
	err := r.db.
		Order("current_streak DESC, user_id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top streaks: %w", err)
	}
	return records, nil
}

// TopBest returns the streak records with the highest best streaks.
func (r *StreakRepository) TopBest(limit int) ([]models.StreakRecord, error) {
	var records []models.StreakRecord
	err := r.db.
		Order("best_streak DESC, user_id ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top best streaks: %w", err)
	}
	return records, nil
}
