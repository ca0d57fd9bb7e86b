package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/disciplehub/disciplehub/internal/models"
)

// AchievementRepository handles achievement catalog and grant database operations.
type AchievementRepository struct {
	db *DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetAll retrieves all achievement definitions.
func (r *AchievementRepository) GetAll() ([]models.AchievementDefinition, error) {
	var defs []models.AchievementDefinition
	err := r.db.Order("requirement ASC, id ASC").Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement definitions: %w", err)
	}
	return defs, nil
}

// GetByID retrieves an achievement definition by its ID.
func (r *AchievementRepository) GetByID(id string) (*models.AchievementDefinition, error) {
	var def models.AchievementDefinition
	err := r.db.First(&def, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrAchievementNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement %q: %w", id, err)
	}
	return &def, nil
}

// Upsert creates or updates an achievement definition by id. Used by
// catalog seeding; grants are never touched.
func (r *AchievementRepository) Upsert(def *models.AchievementDefinition) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"label", "description", "type", "requirement", "tier", "icon", "updated_at"},
		),
	}).Create(def).Error
	if err != nil {
		return fmt.Errorf("failed to upsert achievement %q: %w", def.ID, err)
	}
	return nil
}

// HasGrant checks if a user already holds a specific achievement.
func (r *AchievementRepository) HasGrant(userID, achievementID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AchievementGrant{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}
	return count > 0, nil
}

// CreateGrant records an achievement grant. Granting an achievement the
// user already holds is an idempotent no-op.
func (r *AchievementRepository) CreateGrant(grant *models.AchievementGrant) error {
	exists, err := r.HasGrant(grant.UserID, grant.AchievementID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if grant.GrantedAt.IsZero() {
		grant.GrantedAt = time.Now()
	}
	if err := r.db.Create(grant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent grant; the unique index held.
			return nil
		}
		return fmt.Errorf("failed to create grant: %w", err)
	}
	return nil
}

// GetUserGrants retrieves all achievement grants for a user, newest first.
func (r *AchievementRepository) GetUserGrants(userID string) ([]models.AchievementGrant, error) {
	var grants []models.AchievementGrant
	err := r.db.
		Where("user_id = ?", userID).
		Order("granted_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get grants for user %s: %w", userID, err)
	}
	return grants, nil
}

// GetGrantedIDs retrieves the set of achievement ids a user holds.
func (r *AchievementRepository) GetGrantedIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&models.AchievementGrant{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get granted ids for user %s: %w", userID, err)
	}
	granted := make(map[string]bool, len(ids))
	for _, id := range ids {
		granted[id] = true
	}
	return granted, nil
}

// CountGrants returns the total number of achievements a user holds.
func (r *AchievementRepository) CountGrants(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AchievementGrant{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count grants: %w", err)
	}
	return count, nil
}

// GetHoldersCount returns the number of users holding a specific achievement.
func (r *AchievementRepository) GetHoldersCount(achievementID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.AchievementGrant{}).
		Where("achievement_id = ?", achievementID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count holders: %w", err)
	}
	return count, nil
}
