package models

import (
	"time"
)

// LessonCompletion records that a user finished a course-track lesson.
// Written by the courses module; the engine only counts rows.
type LessonCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;size:100;uniqueIndex:idx_lesson_progress,priority:1" json:"user_id"`
	LessonID    string    `gorm:"not null;size:100;uniqueIndex:idx_lesson_progress,priority:2" json:"lesson_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

// TableName specifies the table name for LessonCompletion model.
func (LessonCompletion) TableName() string {
	return "lesson_progress"
}

// ReadingCompletion records that a user finished a reading-plan day.
type ReadingCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;size:100;uniqueIndex:idx_reading_progress,priority:1" json:"user_id"`
	ReadingDay  string    `gorm:"not null;size:100;uniqueIndex:idx_reading_progress,priority:2" json:"reading_day"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

// TableName specifies the table name for ReadingCompletion model.
func (ReadingCompletion) TableName() string {
	return "reading_progress"
}

// XPEvent is a single experience-point award. A user's XP total is the
// sum of their events.
type XPEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;size:100;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for XPEvent model.
func (XPEvent) TableName() string {
	return "xp_events"
}
