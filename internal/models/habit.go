// Package models defines domain models for the discipleship habit engine.
package models

import (
	"time"
)

// HabitDefinition is a catalog entry for a trackable daily habit.
// Definitions are created and edited by administrators; the engine
// treats them as read-only.
type HabitDefinition struct {
	ID           string    `gorm:"primaryKey;size:100" json:"id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	Icon         string    `gorm:"size:50" json:"icon"`
	Color        string    `gorm:"size:20" json:"color"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for HabitDefinition model.
func (HabitDefinition) TableName() string {
	return "habit_definitions"
}

// DailyHabitCompletion records that a user completed a habit on a calendar day.
// Existence of the row is the whole fact; at most one row may exist per
// (user, habit, day) triple.
type DailyHabitCompletion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"not null;size:100;uniqueIndex:idx_daily_habit,priority:1" json:"user_id"`
	HabitID       string    `gorm:"not null;size:100;uniqueIndex:idx_daily_habit,priority:2" json:"habit_id"`
	CompletedDate string    `gorm:"not null;size:10;uniqueIndex:idx_daily_habit,priority:3;index" json:"completed_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for DailyHabitCompletion model.
func (DailyHabitCompletion) TableName() string {
	return "daily_habits"
}

// StreakRecord tracks consecutive fully-complete days for a user.
// BestStreak never decreases once set; the row is created on the first
// fully-complete day and never deleted.
type StreakRecord struct {
	UserID            string    `gorm:"primaryKey;size:100" json:"user_id"`
	CurrentStreak     int       `gorm:"not null;default:0" json:"current_streak"`
	BestStreak        int       `gorm:"not null;default:0" json:"best_streak"`
	LastCompletedDate *string   `gorm:"size:10" json:"last_completed_date"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for StreakRecord model.
func (StreakRecord) TableName() string {
	return "habit_streaks"
}

// HabitStatus is a HabitDefinition annotated with its completion state
// for one user and one day. It is derived, never stored.
type HabitStatus struct {
	HabitDefinition
	Completed bool `json:"completed"`
}
