package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/disciplehub/disciplehub/internal/models"
)

// HabitRepository handles habit catalog database operations.
type HabitRepository struct {
	db *DB
}

// NewHabitRepository creates a new habit repository.
func NewHabitRepository(db *DB) *HabitRepository {
	return &HabitRepository{db: db}
}

// GetActive retrieves all active habit definitions in display order.
func (r *HabitRepository) GetActive() ([]models.HabitDefinition, error) {
	var habits []models.HabitDefinition
	err := r.db.
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&habits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active habits: %w", err)
	}
	return habits, nil
}

// GetByID retrieves a habit definition by its ID.
func (r *HabitRepository) GetByID(id string) (*models.HabitDefinition, error) {
	var habit models.HabitDefinition
	err := r.db.First(&habit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrHabitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit %q: %w", id, err)
	}
	return &habit, nil
}

// Upsert creates or updates a habit definition by id. Used by catalog seeding.
func (r *HabitRepository) Upsert(habit *models.HabitDefinition) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"name", "icon", "color", "display_order", "is_active", "updated_at"},
		),
	}).Create(habit).Error
	if err != nil {
		return fmt.Errorf("failed to upsert habit %q: %w", habit.ID, err)
	}
	return nil
}
