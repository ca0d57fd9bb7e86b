package models

import (
	"errors"
)

// Domain errors surfaced by the engine. Storage failures are wrapped with
// context instead; recoverable conditions (already toggled, already
// granted) are treated as successful no-ops, not errors.
var (
	// ErrHabitNotFound means the referenced habit id is not in the active catalog.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrAchievementNotFound means the referenced achievement id is not in the catalog.
	ErrAchievementNotFound = errors.New("achievement not found")

	// ErrConsistency is an internal assertion failure, e.g. more than one
	// completion row for the same (user, habit, day) triple. The data is
	// never silently repaired.
	ErrConsistency = errors.New("consistency violation")
)
