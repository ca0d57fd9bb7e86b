package models

import (
	"time"
)

// Metric types an achievement definition can track. Special achievements
// are awarded manually and never auto-qualify.
const (
	MetricStreak  = "streak"
	MetricLessons = "lessons"
	MetricReading = "reading"
	MetricHabits  = "habits"
	MetricXP      = "xp"
	MetricSpecial = "special"
)

// Achievement tiers. Cosmetic only; tier never affects unlock logic.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// AchievementDefinition is a catalog entry for an unlockable achievement.
type AchievementDefinition struct {
	ID          string    `gorm:"primaryKey;size:100" json:"id"`
	Label       string    `gorm:"not null;size:255" json:"label"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"not null;size:20;index" json:"type"`
	Requirement int       `gorm:"not null" json:"requirement"`
	Tier        string    `gorm:"size:20" json:"tier"`
	Icon        string    `gorm:"size:50" json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for AchievementDefinition model.
func (AchievementDefinition) TableName() string {
	return "achievement_definitions"
}

// AchievementGrant records that a user unlocked an achievement.
// Grants are append-only: at most one per (user, achievement) pair, never
// revoked even if the backing metric later regresses.
type AchievementGrant struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"not null;size:100;uniqueIndex:idx_user_achievement,priority:1" json:"user_id"`
	AchievementID string    `gorm:"not null;size:100;uniqueIndex:idx_user_achievement,priority:2" json:"achievement_id"`
	GrantedAt     time.Time `gorm:"not null" json:"granted_at"`
	StreakDays    int       `gorm:"not null;default:0" json:"streak_days"`
}

// TableName specifies the table name for AchievementGrant model.
func (AchievementGrant) TableName() string {
	return "habit_achievements"
}

// ProgressSnapshot holds the current values of all trackable progress
// metrics for a user. Recomputed on demand from source records; never
// persisted as its own entity.
type ProgressSnapshot struct {
	Streak           int `json:"streak"`
	LessonsCompleted int `json:"lessons_completed"`
	ReadingDays      int `json:"reading_days"`
	HabitsCompleted  int `json:"habits_completed"`
	XP               int `json:"xp"`
}

// Metric returns the snapshot value backing a definition type, or false
// when the type has no numeric metric (special and unknown types).
func (s ProgressSnapshot) Metric(defType string) (int, bool) {
	switch defType {
	case MetricStreak:
		return s.Streak, true
	case MetricLessons:
		return s.LessonsCompleted, true
	case MetricReading:
		return s.ReadingDays, true
	case MetricHabits:
		return s.HabitsCompleted, true
	case MetricXP:
		return s.XP, true
	default:
		return 0, false
	}
}
